package rekognitionclient

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/example/vision-classifier/internal/vision"
)

func mapLabels(labels []types.Label) []vision.DetectionItem {
	items := make([]vision.DetectionItem, 0, len(labels))
	for _, l := range labels {
		item := vision.DetectionItem{
			Name:       aws.ToString(l.Name),
			Confidence: float64(aws.ToFloat32(l.Confidence)),
		}
		for _, c := range l.Categories {
			item.Categories = append(item.Categories, aws.ToString(c.Name))
		}
		for _, p := range l.Parents {
			item.Parents = append(item.Parents, aws.ToString(p.Name))
		}
		for _, a := range l.Aliases {
			item.Aliases = append(item.Aliases, aws.ToString(a.Name))
		}
		for _, inst := range l.Instances {
			item.Instances = append(item.Instances, vision.Instance{
				BoundingBox: mapBoundingBox(inst.BoundingBox),
				Confidence:  float64(aws.ToFloat32(inst.Confidence)),
			})
		}
		items = append(items, item)
	}
	return items
}

func mapTextDetections(detections []types.TextDetection) []vision.DetectionItem {
	items := make([]vision.DetectionItem, 0, len(detections))
	for _, d := range detections {
		item := vision.DetectionItem{
			Name:       aws.ToString(d.DetectedText),
			Confidence: float64(aws.ToFloat32(d.Confidence)),
			Type:       string(d.Type),
			ID:         d.Id,
			ParentID:   d.ParentId,
		}
		if d.Geometry != nil {
			item.BoundingBox = mapBoundingBox(d.Geometry.BoundingBox)
		}
		items = append(items, item)
	}
	return items
}

func mapCelebrities(celebrities []types.Celebrity) []vision.DetectionItem {
	items := make([]vision.DetectionItem, 0, len(celebrities))
	for _, c := range celebrities {
		item := vision.DetectionItem{
			Name:       aws.ToString(c.Name),
			Confidence: float64(aws.ToFloat32(c.MatchConfidence)),
			ExternalID: aws.ToString(c.Id),
			URLs:       c.Urls,
		}
		if c.Face != nil {
			item.BoundingBox = mapBoundingBox(c.Face.BoundingBox)
		}
		items = append(items, item)
	}
	return items
}

func mapModerationLabels(labels []types.ModerationLabel) []vision.DetectionItem {
	items := make([]vision.DetectionItem, 0, len(labels))
	for _, l := range labels {
		item := vision.DetectionItem{
			Name:          aws.ToString(l.Name),
			Confidence:    float64(aws.ToFloat32(l.Confidence)),
			TaxonomyLevel: aws.ToInt32(l.TaxonomyLevel),
		}
		if parent := aws.ToString(l.ParentName); parent != "" {
			item.Parents = []string{parent}
		}
		items = append(items, item)
	}
	return items
}

func mapImageProperties(props *types.DetectLabelsImageProperties) *vision.ImageProperties {
	if props == nil {
		return nil
	}
	out := &vision.ImageProperties{
		DominantColors: mapColors(props.DominantColors),
		Quality:        mapQuality(props.Quality),
	}
	if props.Foreground != nil {
		out.ForegroundColors = mapColors(props.Foreground.DominantColors)
	}
	if props.Background != nil {
		out.BackgroundColors = mapColors(props.Background.DominantColors)
	}
	return out
}

func mapColors(colors []types.DominantColor) []vision.ColorSwatch {
	swatches := make([]vision.ColorSwatch, 0, len(colors))
	for _, c := range colors {
		swatches = append(swatches, vision.ColorSwatch{
			Red:             aws.ToInt32(c.Red),
			Green:           aws.ToInt32(c.Green),
			Blue:            aws.ToInt32(c.Blue),
			HexCode:         aws.ToString(c.HexCode),
			CSSColor:        aws.ToString(c.CSSColor),
			SimplifiedColor: aws.ToString(c.SimplifiedColor),
			PixelPercent:    float64(aws.ToFloat32(c.PixelPercent)),
		})
	}
	return swatches
}

func mapQuality(q *types.DetectLabelsImageQuality) *vision.ImageQuality {
	if q == nil {
		return nil
	}
	return &vision.ImageQuality{
		Brightness: float64(aws.ToFloat32(q.Brightness)),
		Sharpness:  float64(aws.ToFloat32(q.Sharpness)),
		Contrast:   float64(aws.ToFloat32(q.Contrast)),
	}
}

func mapBoundingBox(b *types.BoundingBox) *vision.BoundingBox {
	if b == nil {
		return nil
	}
	return &vision.BoundingBox{
		Top:    float64Ptr(b.Top),
		Left:   float64Ptr(b.Left),
		Width:  float64Ptr(b.Width),
		Height: float64Ptr(b.Height),
	}
}

func float64Ptr(v *float32) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
