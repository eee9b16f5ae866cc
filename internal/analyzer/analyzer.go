// Package analyzer 提供帖子欺骗性启发式评分功能
// 基于文案关键词、文件名和媒体类型的轻量规则计算欺骗性评分
// 不做任何像素或音频级别的媒体内容分析
package analyzer

import "strings"

// 媒体类型常量
const (
	MediaTypeImage   = "image"
	MediaTypeVideo   = "video"
	MediaTypeUnknown = "unknown"
)

// 各规则关键词表
var (
	suspiciousKeywords   = []string{"fake", "edited", "ai generated", "deepfake", "not real"}
	exaggerationKeywords = []string{"unbelievable", "shocking", "you won't believe", "must see"}
	uncertaintyKeywords  = []string{"maybe", "idk", "not sure"}
	filenameKeywords     = []string{"cat", "dog", "car", "food", "meme"}
	videoWords           = []string{"video", "watch", "clip", "play", "live"}
	linkWords            = []string{"link", "below", "bio", "website", "read more", "full story"}
)

// 各规则加分值
const (
	suspiciousPoints        = 35
	exaggerationPoints      = 25
	shortCaptionPoints      = 20
	uncertaintyPoints       = 10
	filenameMismatchPoints  = 20
	imageVideoWordsPoints   = 20
	videoNoVideoWordsPoints = 10
	linkNoLinkWordsPoints   = 10
)

// 短文案判定阈值（按空白分词后的词数）
const shortCaptionWordCount = 4

// Result 欺骗性评分结果
// 不包含存储层生成的记录标识和时间戳
type Result struct {
	DeceptionScore   int      `json:"deception_score"`   // 欺骗性评分 [0,100]，越高越可疑
	ConsistencyScore int      `json:"consistency_score"` // 一致性评分，恒等于100-欺骗性评分
	Explanations     []string `json:"explanations"`      // 规则触发说明，顺序固定
	MediaType        string   `json:"media_type"`        // 媒体类型: image/video/unknown
	MediaFilename    string   `json:"media_filename"`    // 原始媒体文件名
	LinkURL          string   `json:"link_url"`          // 外部链接，可为空
	Caption          string   `json:"caption"`           // 帖子文案
}

// Analyze 对帖子文案与媒体配对做欺骗性启发式评分
// 纯函数，无副作用；输入由调用方预先校验，不返回错误
// 参数:
//   - caption: 帖子文案
//   - mediaFilename: 原始媒体文件名（用于文件名启发规则）
//   - mediaType: 媒体类型，非image/video的取值一律按unknown处理
//   - linkURL: 帖子附带的外部链接，可为空
//
// 返回:
//   - Result: 评分结果，满足 DeceptionScore+ConsistencyScore==100
func Analyze(caption, mediaFilename, mediaType, linkURL string) Result {
	captionLower := strings.ToLower(caption)
	filenameLower := strings.ToLower(mediaFilename)

	if mediaType != MediaTypeImage && mediaType != MediaTypeVideo {
		mediaType = MediaTypeUnknown
	}

	score := 0

	// 文案关键词规则
	hasSuspicious := containsAny(captionLower, suspiciousKeywords)
	if hasSuspicious {
		score += suspiciousPoints
	}

	hasExaggeration := containsAny(captionLower, exaggerationKeywords)
	if hasExaggeration {
		score += exaggerationPoints
	}

	// 短文案规则（空文案按0个词计）
	isShortCaption := len(strings.Fields(caption)) < shortCaptionWordCount
	if isShortCaption {
		score += shortCaptionPoints
	}

	hasUncertainty := containsAny(captionLower, uncertaintyKeywords)
	if hasUncertainty {
		score += uncertaintyPoints
	}

	// 文件名暗示的内容未在文案中出现
	filenameMatches := matchAll(filenameLower, filenameKeywords)
	captionMatches := matchAll(captionLower, filenameKeywords)
	filenameMismatch := len(filenameMatches) > 0 && len(captionMatches) == 0
	if filenameMismatch {
		score += filenameMismatchPoints
	}

	// 媒体类型与链接规则
	captionHasVideoWords := containsAny(captionLower, videoWords)
	if mediaType == MediaTypeImage && captionHasVideoWords {
		score += imageVideoWordsPoints
	}
	if mediaType == MediaTypeVideo && !captionHasVideoWords {
		score += videoNoVideoWordsPoints
	}

	captionHasLinkWords := containsAny(captionLower, linkWords)
	if linkURL != "" && !captionHasLinkWords {
		score += linkNoLinkWordsPoints
	}

	// 总分截断到[0,100]
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	explanations := buildExplanations(
		hasSuspicious, hasExaggeration, isShortCaption, hasUncertainty,
		filenameMismatch, filenameMatches, mediaType, linkURL,
	)

	return Result{
		DeceptionScore:   score,
		ConsistencyScore: 100 - score,
		Explanations:     explanations,
		MediaType:        mediaType,
		MediaFilename:    mediaFilename,
		LinkURL:          linkURL,
		Caption:          caption,
	}
}

// buildExplanations 按固定顺序生成规则触发说明
// 媒体类型说明总是生成，链接说明仅在存在外部链接时生成
func buildExplanations(
	hasSuspicious, hasExaggeration, isShortCaption, hasUncertainty bool,
	filenameMismatch bool, filenameMatches []string,
	mediaType, linkURL string,
) []string {
	explanations := []string{}

	if hasSuspicious {
		explanations = append(explanations,
			"Caption contains words like 'fake' or 'edited', which may indicate manipulation or deception.")
	}

	if hasExaggeration {
		explanations = append(explanations,
			"Caption uses highly exaggerated language, which can be a sign of misleading content.")
	}

	if isShortCaption {
		explanations = append(explanations,
			"Caption is very short and lacks detail, which can make it easier to misrepresent the image.")
	}

	if hasUncertainty {
		explanations = append(explanations,
			"Caption expresses uncertainty, which can reduce trust in how accurately it describes the image.")
	}

	if filenameMismatch {
		explanations = append(explanations,
			"Image filename suggests content (e.g., "+strings.Join(filenameMatches, ", ")+") that is not mentioned in the caption.")
	}

	switch mediaType {
	case MediaTypeImage:
		explanations = append(explanations,
			"Post contains an image. Scores reflect how the caption aligns with the visual content.")
	case MediaTypeVideo:
		explanations = append(explanations,
			"Post contains a video. Scores reflect how the caption aligns with the video content title.")
	default:
		explanations = append(explanations,
			"Media type could not be clearly determined; only caption-based heuristics were used.")
	}

	if linkURL != "" {
		explanations = append(explanations,
			"An external link is attached to this post; captions that clearly describe the link content are generally more trustworthy.")
	}

	// 媒体类型说明总是存在，此分支实际不可达，保留以保证列表永不为空
	if len(explanations) == 0 {
		explanations = append(explanations,
			"No strong indicators of inconsistency were found by the simple heuristic rules.")
	}

	return explanations
}

// containsAny 判断文本是否包含任一关键词（子串匹配）
func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// matchAll 返回文本中出现的全部关键词，保持关键词表顺序
func matchAll(text string, keywords []string) []string {
	var matches []string
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			matches = append(matches, keyword)
		}
	}
	return matches
}
