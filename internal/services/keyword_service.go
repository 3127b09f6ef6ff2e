// internal/services/keyword_service.go
package services

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultTopK 关键词抽取的默认数量
const DefaultTopK = 8

// maxVocabulary 特征词表上限，超出时保留语料中最高频的词项
const maxVocabulary = 512

// 词元模式：至少两个字母/数字字符
var tokenPattern = regexp.MustCompile(`[\pL\pN_]{2,}`)

// KeywordService 基于 TF-IDF 的关键词抽取
type KeywordService struct{}

// NewKeywordService 创建关键词服务
func NewKeywordService() *KeywordService {
	return &KeywordService{}
}

// vocabEntry 词表项：保留首次出现顺序用于并列打破
type vocabEntry struct {
	term      string
	firstSeen int
	totalFreq int
}

// Extract 对文档集抽取排名前 topK 的词/短语
// 空输入或词表为空时返回空切片，从不报错
func (k *KeywordService) Extract(texts []string, topK int) []string {
	if len(texts) == 0 || topK <= 0 {
		return nil
	}

	// 每个文档的词项计数（一元词 + 二元词组）
	docTerms := make([]map[string]int, 0, len(texts))
	vocabIndex := make(map[string]*vocabEntry)
	var vocab []*vocabEntry

	for _, text := range texts {
		counts := make(map[string]int)
		for _, term := range k.terms(text) {
			counts[term]++
			entry, exists := vocabIndex[term]
			if !exists {
				entry = &vocabEntry{term: term, firstSeen: len(vocab)}
				vocabIndex[term] = entry
				vocab = append(vocab, entry)
			}
			entry.totalFreq++
		}
		docTerms = append(docTerms, counts)
	}

	if len(vocab) == 0 {
		return nil
	}

	// 词表截断：按语料总频次保留前 maxVocabulary 项，并列时保留先出现者
	if len(vocab) > maxVocabulary {
		sort.SliceStable(vocab, func(i, j int) bool {
			return vocab[i].totalFreq > vocab[j].totalFreq
		})
		for _, dropped := range vocab[maxVocabulary:] {
			delete(vocabIndex, dropped.term)
		}
		vocab = vocab[:maxVocabulary]
		sort.SliceStable(vocab, func(i, j int) bool {
			return vocab[i].firstSeen < vocab[j].firstSeen
		})
	}

	// 文档频率与平滑 IDF
	df := make(map[string]int)
	for _, counts := range docTerms {
		for term := range counts {
			if _, kept := vocabIndex[term]; kept {
				df[term]++
			}
		}
	}
	n := float64(len(texts))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	// 每文档 L2 归一化的 TF-IDF，按词项累加
	totals := make(map[string]float64)
	for _, counts := range docTerms {
		var norm float64
		weights := make(map[string]float64)
		for term, tf := range counts {
			if _, kept := vocabIndex[term]; !kept {
				continue
			}
			w := float64(tf) * idf[term]
			weights[term] = w
			norm += w * w
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for term, w := range weights {
			totals[term] += w / norm
		}
	}

	// 权重降序，稳定排序下并列保持词表首次出现顺序
	ranked := make([]*vocabEntry, len(vocab))
	copy(ranked, vocab)
	sort.SliceStable(ranked, func(i, j int) bool {
		return totals[ranked[i].term] > totals[ranked[j].term]
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	result := make([]string, 0, topK)
	for _, entry := range ranked[:topK] {
		result = append(result, entry.term)
	}
	return result
}

// terms 生成一个文档的词项序列：去停用词后的一元词与相邻二元词组
func (k *KeywordService) terms(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if englishStopWords[token] {
			continue
		}
		filtered = append(filtered, token)
	}

	terms := make([]string, 0, len(filtered)*2)
	terms = append(terms, filtered...)
	for i := 0; i+1 < len(filtered); i++ {
		terms = append(terms, filtered[i]+" "+filtered[i+1])
	}
	return terms
}
