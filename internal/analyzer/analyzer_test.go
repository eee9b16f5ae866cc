// Package analyzer 的单元测试
// 覆盖各评分规则、分数截断和解释生成顺序
package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAnalyzeScoreInvariants 测试评分不变式
func TestAnalyzeScoreInvariants(t *testing.T) {
	cases := []struct {
		caption  string
		filename string
		media    string
		link     string
	}{
		{"", "a.jpg", MediaTypeImage, ""},
		{"fake unbelievable idk watch", "cat.jpg", MediaTypeImage, "http://x"},
		{"a perfectly ordinary sunset photo from our trip", "sunset.jpg", MediaTypeImage, ""},
		{"must see this shocking deepfake not real", "meme.mp4", MediaTypeVideo, "https://example.com"},
		{"maybe", "dog.png", MediaTypeUnknown, ""},
	}

	for _, tc := range cases {
		result := Analyze(tc.caption, tc.filename, tc.media, tc.link)
		assert.GreaterOrEqual(t, result.DeceptionScore, 0)
		assert.LessOrEqual(t, result.DeceptionScore, 100)
		assert.Equal(t, 100, result.DeceptionScore+result.ConsistencyScore)
		assert.NotEmpty(t, result.Explanations)
	}
}

// TestAnalyzeSuspiciousShortCaption 测试可疑关键词与短文案叠加
func TestAnalyzeSuspiciousShortCaption(t *testing.T) {
	result := Analyze("fake", "x.jpg", MediaTypeImage, "")

	// 可疑关键词+35，单词文案+20
	assert.Equal(t, 55, result.DeceptionScore)
	assert.Equal(t, 45, result.ConsistencyScore)
	assert.Contains(t, result.Explanations[0], "manipulation or deception")
	assert.Contains(t, result.Explanations[1], "very short")
}

// TestAnalyzeFilenameMismatch 测试文件名与文案不匹配规则
func TestAnalyzeFilenameMismatch(t *testing.T) {
	t.Run("文件名含关键词而文案未提及", func(t *testing.T) {
		result := Analyze(
			"This is a wonderful sunny day at the beach",
			"cat_photo.jpg", MediaTypeImage, "",
		)
		assert.Equal(t, 20, result.DeceptionScore)
		assert.Equal(t, 80, result.ConsistencyScore)

		found := false
		for _, e := range result.Explanations {
			if strings.Contains(e, "cat") {
				found = true
			}
		}
		assert.True(t, found, "解释中应包含文件名关键词")
	})

	t.Run("文案同样提及关键词时不触发", func(t *testing.T) {
		result := Analyze(
			"Look at this lovely cat enjoying the wonderful sunny day",
			"cat_photo.jpg", MediaTypeImage, "",
		)
		assert.Equal(t, 0, result.DeceptionScore)
	})
}

// TestAnalyzeEmptyCaptionVideoWithLink 测试空文案+视频+外链的组合
func TestAnalyzeEmptyCaptionVideoWithLink(t *testing.T) {
	result := Analyze("", "video.mp4", MediaTypeVideo, "http://x")

	// 零词短文案+20，视频但文案无视频词+10，外链但文案无链接词+10
	assert.Equal(t, 40, result.DeceptionScore)
	assert.Equal(t, 60, result.ConsistencyScore)
}

// TestAnalyzeImageWithVideoWords 测试图片配视频词文案规则
func TestAnalyzeImageWithVideoWords(t *testing.T) {
	result := Analyze(
		"watch this amazing sunset over the mountains right now",
		"sunset.jpg", MediaTypeImage, "",
	)
	assert.Equal(t, 20, result.DeceptionScore)
}

// TestAnalyzeScoreClamped 测试总分截断到100
func TestAnalyzeScoreClamped(t *testing.T) {
	// 35+25+10+20(图片含视频词)+20(文件名不匹配)+10(外链) = 120 -> 100
	result := Analyze(
		"fake unbelievable idk watch",
		"cat.jpg", MediaTypeImage, "http://x",
	)
	assert.Equal(t, 100, result.DeceptionScore)
	assert.Equal(t, 0, result.ConsistencyScore)
}

// TestAnalyzeMediaTypeExplanation 测试媒体类型说明总是生成
func TestAnalyzeMediaTypeExplanation(t *testing.T) {
	t.Run("图片", func(t *testing.T) {
		result := Analyze("a nice long caption about the scenery here", "a.jpg", MediaTypeImage, "")
		assert.Contains(t, result.Explanations[len(result.Explanations)-1], "contains an image")
	})

	t.Run("视频", func(t *testing.T) {
		result := Analyze("watch this long clip of the whole event live", "a.mp4", MediaTypeVideo, "")
		assert.Contains(t, result.Explanations[len(result.Explanations)-1], "contains a video")
	})

	t.Run("未知类型不匹配图片和视频分支", func(t *testing.T) {
		result := Analyze("a nice long caption about the scenery here", "a.bin", "", "")
		assert.Equal(t, MediaTypeUnknown, result.MediaType)
		assert.Equal(t, 0, result.DeceptionScore)
		assert.Contains(t, result.Explanations[len(result.Explanations)-1], "could not be clearly determined")
	})
}

// TestAnalyzeLinkExplanation 测试外链说明仅在有链接时生成
func TestAnalyzeLinkExplanation(t *testing.T) {
	withLink := Analyze("full story at the link below for everyone", "a.jpg", MediaTypeImage, "http://x")
	assert.Contains(t, withLink.Explanations[len(withLink.Explanations)-1], "external link")

	withoutLink := Analyze("a nice long caption about the scenery here", "a.jpg", MediaTypeImage, "")
	for _, e := range withoutLink.Explanations {
		assert.NotContains(t, e, "external link")
	}
}

// TestAnalyzeUncertainty 测试不确定性关键词规则
func TestAnalyzeUncertainty(t *testing.T) {
	// 8个词不触发短文案，仅不确定性+10
	result := Analyze(
		"not sure what this photo is really showing",
		"a.jpg", MediaTypeImage, "",
	)
	assert.Equal(t, 10, result.DeceptionScore)
}
