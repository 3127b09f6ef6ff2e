// internal/utils/text_test.go
package utils

import (
	"strings"
	"testing"
)

// TestWrapParagraph 测试段落软换行
func TestWrapParagraph(t *testing.T) {
	if got := WrapParagraph("", 90); got != "" {
		t.Fatalf("空输入应当返回空串: %q", got)
	}
	if got := WrapParagraph("short line", 90); got != "short line" {
		t.Fatalf("短文本不应换行: %q", got)
	}

	words := make([]string, 40)
	for i := range words {
		words[i] = "word"
	}
	wrapped := WrapParagraph(strings.Join(words, " "), 30)
	for _, line := range strings.Split(wrapped, "\n") {
		if len([]rune(line)) > 30 {
			t.Fatalf("行宽超限: %q", line)
		}
	}
	// 换行只改变空白，不改变内容
	if strings.ReplaceAll(wrapped, "\n", " ") != strings.Join(words, " ") {
		t.Fatalf("换行改变了内容:\n%s", wrapped)
	}
}

// TestWrapParagraphOversizeWord 测试超宽单词独占一行且不被截断
func TestWrapParagraphOversizeWord(t *testing.T) {
	long := strings.Repeat("x", 50)
	wrapped := WrapParagraph("a "+long+" b", 10)
	if !strings.Contains(wrapped, long) {
		t.Fatalf("超宽单词不应被截断:\n%s", wrapped)
	}
}

// TestTruncateText 测试软截断
func TestTruncateText(t *testing.T) {
	if got := TruncateText("short", 10); got != "short" {
		t.Fatalf("未超长不应截断: %q", got)
	}
	got := TruncateText("one two three four five", 12)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("截断结果应以省略号结尾: %q", got)
	}
	if len([]rune(got)) > 15 {
		t.Fatalf("截断结果过长: %q", got)
	}
}
