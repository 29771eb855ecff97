package usecase

import (
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
)

// decide walks the priority order: peak-hour posting beats replying, which
// beats off-peak posting, which beats idling. The force flags skip pacing
// but never the hard quota.
func (uc *UseCases) decide(tc *tickContext, now time.Time) *model.Strategy {
	counters := tc.counters.current()
	hour := now.In(uc.location).Hour()

	postOK := model.CanPost(counters, uc.limits)
	replyOK := model.CanReply(counters, uc.limits)

	if uc.behavior.ForcePost || uc.behavior.ForceVideo {
		if !postOK.Allowed {
			return &model.Strategy{Action: types.ActionIdle, Reason: postOK.Reason}
		}
		d := uc.pickContent(tc, hour)
		d.Action = types.ActionPost
		if uc.behavior.ForceVideo && model.CanCreateVideo(counters, uc.limits).Allowed {
			d.ContentType = types.ContentTypeVideo
			d.Topic, d.SourceURL = pickVideoTopic(tc.trends)
		}
		return d
	}

	if postOK.Allowed && uc.limits.IsPeakHour(hour) && counters.PostsCreated < uc.limits.PeakPostTarget {
		d := uc.pickContent(tc, hour)
		d.Action = types.ActionPost
		return d
	}

	if replyOK.Allowed {
		return &model.Strategy{Action: types.ActionReply}
	}

	if postOK.Allowed && counters.PostsCreated < uc.limits.OffPeakPostTarget {
		d := uc.pickContent(tc, hour)
		d.Action = types.ActionPost
		return d
	}

	reason := postOK.Reason
	if postOK.Allowed {
		// Under the hard quota but over the pacing target
		reason = "Pacing target reached for this window"
	}
	return &model.Strategy{Action: types.ActionIdle, Reason: reason}
}

// pickContent chooses a content type and topic from the trend context,
// downgrading media types when the media budget is spent
func (uc *UseCases) pickContent(tc *tickContext, hour int) *model.Strategy {
	counters := tc.counters.current()
	contentType := pickContentType(tc.trends, tc.recentTypes, hour)

	switch contentType {
	case types.ContentTypeVideo:
		if ok := model.CanCreateVideo(counters, uc.limits); !ok.Allowed {
			contentType = types.ContentTypeText
		}
	case types.ContentTypeImage, types.ContentTypeMeme:
		if ok := model.CanCreateImage(counters, uc.limits); !ok.Allowed {
			contentType = types.ContentTypeText
		}
	}

	topic, sourceURL := pickTopic(tc.trends, tc.lastTopics, contentType)
	return &model.Strategy{
		ContentType: contentType,
		Topic:       topic,
		SourceURL:   sourceURL,
	}
}

// pickContentType selects a type from the top trend's category, biased by
// time of day, avoiding the immediately-previous type when possible
func pickContentType(trends []*model.Trend, recentTypes []types.ContentType, hour int) types.ContentType {
	var candidates []types.ContentType
	if len(trends) > 0 {
		switch trends[0].Category.Normalize() {
		case types.TrendCategoryCrypto, types.TrendCategoryTech, types.TrendCategoryAI:
			candidates = []types.ContentType{types.ContentTypeVideo, types.ContentTypeText, types.ContentTypeThought}
		case types.TrendCategoryMeme, types.TrendCategoryViral:
			candidates = []types.ContentType{types.ContentTypeMeme, types.ContentTypeText, types.ContentTypeVideo}
		default:
			candidates = []types.ContentType{types.ContentTypeText, types.ContentTypeVideo, types.ContentTypeThought}
		}
	} else {
		candidates = []types.ContentType{types.ContentTypeThought, types.ContentTypeText}
	}

	// Peak engagement hours favor visual content, late night favors
	// standalone thoughts
	switch {
	case isVideoHour(hour):
		candidates = promote(candidates, types.ContentTypeVideo)
	case hour >= 0 && hour <= 5:
		candidates = promote(candidates, types.ContentTypeThought)
	}

	if len(recentTypes) > 0 && len(candidates) > 1 {
		candidates = remove(candidates, recentTypes[0])
	}

	if len(candidates) == 0 {
		return types.ContentTypeText
	}
	return candidates[0]
}

func isVideoHour(hour int) bool {
	return (hour >= 9 && hour <= 11) || (hour >= 19 && hour <= 21)
}

func promote(candidates []types.ContentType, target types.ContentType) []types.ContentType {
	for _, c := range candidates {
		if c == target {
			result := []types.ContentType{target}
			return append(result, remove(candidates, target)...)
		}
	}
	return candidates
}

func remove(candidates []types.ContentType, target types.ContentType) []types.ContentType {
	result := make([]types.ContentType, 0, len(candidates))
	for _, c := range candidates {
		if c != target {
			result = append(result, c)
		}
	}
	return result
}

// pickTopic prefers trends not covered recently, falling back to all when
// everything was covered. Video content filters to technical categories
// when any exist.
func pickTopic(trends []*model.Trend, lastTopics []string, contentType types.ContentType) (string, string) {
	if len(trends) == 0 {
		return "", ""
	}

	recent := make(map[string]struct{}, len(lastTopics))
	for _, t := range lastTopics {
		recent[t] = struct{}{}
	}

	available := make([]*model.Trend, 0, len(trends))
	for _, t := range trends {
		if _, used := recent[t.Topic]; !used {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		available = trends
	}

	if contentType == types.ContentTypeVideo {
		technical := make([]*model.Trend, 0, len(available))
		for _, t := range available {
			if t.Category.IsTechnical() {
				technical = append(technical, t)
			}
		}
		if len(technical) > 0 {
			available = technical
		}
	}

	return available[0].Topic, available[0].URL
}

// pickVideoTopic picks the best topic for forced video content
func pickVideoTopic(trends []*model.Trend) (string, string) {
	for _, t := range trends {
		if t.Category.IsTechnical() {
			return t.Topic, t.URL
		}
	}
	if len(trends) > 0 {
		return trends[0].Topic, trends[0].URL
	}
	return "", ""
}
