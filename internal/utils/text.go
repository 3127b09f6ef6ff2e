// internal/utils/text.go
package utils

import "strings"

// TruncateText 在给定长度附近软截断文本，尽量不截断单词
func TruncateText(text string, length int) string {
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	cut := string(runes[:length])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// WrapParagraph 按单词边界软换行，默认宽度用于最终文档渲染
func WrapParagraph(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		// 行宽按 rune 计数，中英文混排时更接近可读宽度
		if len([]rune(current))+1+len([]rune(word)) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	lines = append(lines, current)

	return strings.Join(lines, "\n")
}

// ChunkList 将字符串列表按固定大小拼接成块
func ChunkList(items []string, size int) []string {
	var chunks []string
	var chunk []string
	for _, item := range items {
		chunk = append(chunk, item)
		if len(chunk) >= size {
			chunks = append(chunks, strings.Join(chunk, " "))
			chunk = nil
		}
	}
	if len(chunk) > 0 {
		chunks = append(chunks, strings.Join(chunk, " "))
	}
	return chunks
}
