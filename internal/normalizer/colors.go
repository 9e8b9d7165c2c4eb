package normalizer

import "github.com/example/vision-classifier/internal/vision"

// ColorCategory is the label category that marks a label as a color.
const ColorCategory = "Color"

// Box-top thresholds, as fractions of image height, used when a color label
// carries no location hint.
const (
	ForegroundTopThreshold = 0.7
	BackgroundTopThreshold = 0.3
)

// Placement is the bucket a color label belongs to.
type Placement int

const (
	PlacementDominant Placement = iota
	PlacementForeground
	PlacementBackground
)

func (p Placement) String() string {
	switch p {
	case PlacementForeground:
		return "foreground"
	case PlacementBackground:
		return "background"
	default:
		return "dominant"
	}
}

// ClassifyColor places a color label. An explicit hint wins. Otherwise an
// instance whose box top is greater than ForegroundTopThreshold makes it
// foreground, then one whose top is less than BackgroundTopThreshold makes it
// background. Everything else is dominant.
func ClassifyColor(item vision.DetectionItem) Placement {
	switch {
	case item.HasHint(vision.HintForeground):
		return PlacementForeground
	case item.HasHint(vision.HintBackground):
		return PlacementBackground
	}

	if anyInstanceTop(item, func(top float64) bool { return top > ForegroundTopThreshold }) {
		return PlacementForeground
	}
	if anyInstanceTop(item, func(top float64) bool { return top < BackgroundTopThreshold }) {
		return PlacementBackground
	}
	return PlacementDominant
}

// SummarizeColors splits the color labels into buckets and copies the
// image-property swatches through.
func SummarizeColors(labels []vision.DetectionItem, props *vision.ImageProperties) *ColorSummary {
	summary := &ColorSummary{
		DominantColors:     []vision.DetectionItem{},
		ForegroundColors:   []vision.DetectionItem{},
		BackgroundColors:   []vision.DetectionItem{},
		ColorProperties:    []vision.ColorSwatch{},
		ForegroundSwatches: []vision.ColorSwatch{},
		BackgroundSwatches: []vision.ColorSwatch{},
	}

	for _, label := range labels {
		if !label.HasCategory(ColorCategory) {
			continue
		}
		switch ClassifyColor(label) {
		case PlacementForeground:
			summary.ForegroundColors = append(summary.ForegroundColors, label)
		case PlacementBackground:
			summary.BackgroundColors = append(summary.BackgroundColors, label)
		default:
			summary.DominantColors = append(summary.DominantColors, label)
		}
	}

	if props != nil {
		summary.ColorProperties = orEmpty(props.DominantColors)
		summary.ForegroundSwatches = orEmpty(props.ForegroundColors)
		summary.BackgroundSwatches = orEmpty(props.BackgroundColors)
		summary.Quality = props.Quality
	}
	return summary
}

// anyInstanceTop applies pred to each instance's box top. A missing box or
// top counts as 0.
func anyInstanceTop(item vision.DetectionItem, pred func(top float64) bool) bool {
	for _, inst := range item.Instances {
		if pred(inst.BoundingBox.TopOrZero()) {
			return true
		}
	}
	return false
}
