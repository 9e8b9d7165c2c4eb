// Package normalizer reshapes raw vision-service responses into grouped
// buckets. Every function here is pure: no I/O, no errors, and the output
// does not depend on map iteration order.
package normalizer

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/example/vision-classifier/internal/vision"
)

// Input is everything Normalize needs for one request.
type Input struct {
	Bundle      vision.Bundle
	Features    vision.Features
	Mode        vision.Mode
	RequestID   string
	Image       ImageMetadata
	ProcessedAt time.Time
}

// Normalize builds the classification result for the enabled features.
// Missing responses or fields yield empty buckets.
func Normalize(in Input) *ClassificationResult {
	result := &ClassificationResult{
		RequestID: in.RequestID,
		Timestamp: in.ProcessedAt.UTC(),
		Mode:      in.Mode,
		Image:     in.Image,
	}

	var labels []vision.DetectionItem
	var labelModel string
	if in.Bundle.Labels != nil {
		labels = in.Bundle.Labels.Labels
		labelModel = in.Bundle.Labels.ModelVersion
	}

	if in.Features.Colors {
		result.ColorSummary = SummarizeColors(labels, in.Bundle.Properties)
	}
	if in.Features.Labels {
		result.LabelSummary = &LabelSummary{
			AllLabels: orEmpty(labels),
			Labels: LabelGroups{
				Categories:   GroupByCategory(labels),
				ByConfidence: SortByConfidence(labels),
				ModelVersion: labelModel,
			},
		}
	}
	if in.Features.Text {
		result.Text = SegmentText(in.Bundle.Text)
	}
	if in.Features.Celebrities {
		result.Celebrities = SummarizeCelebrities(in.Bundle.Celebrities)
	}
	if in.Features.Moderation {
		result.Moderation = SummarizeModeration(in.Bundle.Moderation)
	}
	return result
}

// GroupByCategory maps each category name to the labels tagged with it.
// A label appears under every one of its categories.
func GroupByCategory(labels []vision.DetectionItem) map[string][]vision.DetectionItem {
	groups := make(map[string][]vision.DetectionItem)
	for _, label := range labels {
		seen := make(map[string]struct{}, len(label.Categories))
		for _, category := range label.Categories {
			if _, dup := seen[category]; dup {
				continue
			}
			seen[category] = struct{}{}
			groups[category] = append(groups[category], label)
		}
	}
	return groups
}

// SortByConfidence returns a copy of items ordered by descending confidence.
// Equal scores keep their input order.
func SortByConfidence(items []vision.DetectionItem) []vision.DetectionItem {
	sorted := slices.Clone(orEmpty(items))
	slices.SortStableFunc(sorted, func(a, b vision.DetectionItem) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	return sorted
}

// SegmentText splits text detections into lines and words.
func SegmentText(resp *vision.TextResponse) *TextSummary {
	summary := &TextSummary{
		All:   []vision.DetectionItem{},
		Lines: []vision.DetectionItem{},
		Words: []vision.DetectionItem{},
	}
	if resp == nil {
		return summary
	}

	summary.ModelVersion = resp.ModelVersion
	lines := make([]string, 0, len(resp.Detections))
	for _, d := range resp.Detections {
		summary.All = append(summary.All, d)
		switch strings.ToUpper(d.Type) {
		case vision.TextLine:
			summary.Lines = append(summary.Lines, d)
			lines = append(lines, d.Name)
		case vision.TextWord:
			summary.Words = append(summary.Words, d)
		}
	}
	summary.FullText = strings.Join(lines, "\n")
	return summary
}

// SummarizeCelebrities lists recognized faces by descending match confidence.
func SummarizeCelebrities(resp *vision.CelebrityResponse) *CelebritySummary {
	if resp == nil {
		return &CelebritySummary{Recognized: []vision.DetectionItem{}}
	}
	return &CelebritySummary{
		Recognized:        SortByConfidence(resp.Celebrities),
		UnrecognizedCount: resp.UnrecognizedFaces,
	}
}

// SummarizeModeration groups moderation labels by parent category. A label
// without a parent is its own group.
func SummarizeModeration(resp *vision.ModerationResponse) *ModerationSummary {
	summary := &ModerationSummary{
		All:        []vision.DetectionItem{},
		Categories: map[string][]vision.DetectionItem{},
		IsSafe:     true,
	}
	if resp == nil {
		return summary
	}

	summary.ModelVersion = resp.ModelVersion
	summary.All = SortByConfidence(resp.Labels)
	for _, label := range resp.Labels {
		key := label.Name
		if len(label.Parents) > 0 && label.Parents[0] != "" {
			key = label.Parents[0]
		}
		summary.Categories[key] = append(summary.Categories[key], label)
	}
	summary.IsSafe = len(resp.Labels) == 0
	return summary
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
