package vision

// Location hint values attached to detections by the vision service.
const (
	HintForeground = "Foreground"
	HintBackground = "Background"
)

// Text granularity values.
const (
	TextLine = "LINE"
	TextWord = "WORD"
)

// BoundingBox holds ratios of the overall image size.
type BoundingBox struct {
	Top    *float64 `json:"top,omitempty"`
	Left   *float64 `json:"left,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// TopOrZero returns the top coordinate, treating a missing box or value as 0.
func (b *BoundingBox) TopOrZero() float64 {
	if b == nil || b.Top == nil {
		return 0
	}
	return *b.Top
}

// Instance is one located occurrence of a detected entity.
type Instance struct {
	BoundingBox *BoundingBox `json:"boundingBox,omitempty"`
	Confidence  float64      `json:"confidence"`
}

// DetectionItem is a detected entity in the shape shared by every operation:
// labels, text tokens, celebrities, moderation flags and colors.
type DetectionItem struct {
	Name          string       `json:"name"`
	Confidence    float64      `json:"confidence"`
	Categories    []string     `json:"categories,omitempty"`
	Parents       []string     `json:"parents,omitempty"`
	Aliases       []string     `json:"aliases,omitempty"`
	LocationHints []string     `json:"locationHints,omitempty"`
	BoundingBox   *BoundingBox `json:"boundingBox,omitempty"`
	Instances     []Instance   `json:"instances,omitempty"`

	Type          string   `json:"type,omitempty"`
	ID            *int32   `json:"id,omitempty"`
	ParentID      *int32   `json:"parentId,omitempty"`
	ExternalID    string   `json:"externalId,omitempty"`
	URLs          []string `json:"urls,omitempty"`
	TaxonomyLevel int32    `json:"taxonomyLevel,omitempty"`
}

// HasCategory reports whether the item is tagged with the named category.
func (d DetectionItem) HasCategory(name string) bool {
	for _, c := range d.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// HasHint reports whether the item carries the given location hint.
func (d DetectionItem) HasHint(hint string) bool {
	for _, h := range d.LocationHints {
		if h == hint {
			return true
		}
	}
	return false
}

// ColorSwatch is a color reported by image-property extraction.
type ColorSwatch struct {
	Red             int32   `json:"red"`
	Green           int32   `json:"green"`
	Blue            int32   `json:"blue"`
	HexCode         string  `json:"hexCode,omitempty"`
	CSSColor        string  `json:"cssColor,omitempty"`
	SimplifiedColor string  `json:"simplifiedColor,omitempty"`
	PixelPercent    float64 `json:"pixelPercent"`
}

// ImageQuality carries the quality scores of an image or image region.
type ImageQuality struct {
	Brightness float64 `json:"brightness"`
	Sharpness  float64 `json:"sharpness"`
	Contrast   float64 `json:"contrast"`
}

// ImageProperties is the result of image-property extraction.
type ImageProperties struct {
	DominantColors   []ColorSwatch
	ForegroundColors []ColorSwatch
	BackgroundColors []ColorSwatch
	Quality          *ImageQuality
}

// Bundle collects the raw responses of one classification request. Operations
// that were not invoked are left nil.
type Bundle struct {
	Labels      *LabelResponse
	Text        *TextResponse
	Celebrities *CelebrityResponse
	Moderation  *ModerationResponse
	Properties  *ImageProperties
}
