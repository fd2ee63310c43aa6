package gallery

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SwipeToDismissMode selects which swipe axes may dismiss the gallery.
type SwipeToDismissMode int

const (
	SwipeToDismissNever SwipeToDismissMode = iota
	SwipeToDismissHorizontal
	SwipeToDismissVertical
	SwipeToDismissAlways
)

func (m SwipeToDismissMode) allows(o Orientation) bool {
	switch o {
	case OrientationHorizontal:
		return m == SwipeToDismissHorizontal || m == SwipeToDismissAlways
	case OrientationVertical:
		return m == SwipeToDismissVertical || m == SwipeToDismissAlways
	}
	return false
}

// RotationMode decides whether the gallery follows device rotation when the host does not.
type RotationMode int

const (
	// RotationApplicationBased rotates only to orientations the host supports.
	RotationApplicationBased RotationMode = iota
	// RotationAlways rotates regardless of the host orientation support.
	RotationAlways
)

// TimingCurve names the easing used by the displacement transition.
type TimingCurve int

const (
	CurveLinear TimingCurve = iota
	CurveEaseIn
	CurveEaseOut
	CurveEaseInOut
)

// DisplacementStyle optionally adds a spring bounce to the end of the displacement.
// The zero value is the normal, non bouncing style.
type DisplacementStyle struct {
	Bounce float32 `toml:"bounce" yaml:"bounce"`
}

// DisplacementNormal is the non bouncing displacement.
var DisplacementNormal = DisplacementStyle{}

// SpringBounce returns a bouncing displacement style. Lower values bounce more, 1 does not bounce.
func SpringBounce(bounce float32) DisplacementStyle {
	return DisplacementStyle{Bounce: bounce}
}

// damping is the spring damping ratio for the style.
func (s DisplacementStyle) damping() float32 {
	if s.Bounce <= 0 {
		return 1
	}
	return s.Bounce
}

// Options configures a gallery session. A session copies the value at creation and never
// changes it afterwards.
type Options struct {
	// Spacing between items while paging.
	ImageDividerWidth float32 `toml:"image_divider_width" yaml:"image_divider_width"`
	// Switch the host window to full screen while the gallery is shown.
	StatusBarHidden bool `toml:"status_bar_hidden" yaml:"status_bar_hidden"`

	HideHeaderOnLaunch      bool `toml:"hide_header_on_launch" yaml:"hide_header_on_launch"`
	HideFooterOnLaunch      bool `toml:"hide_footer_on_launch" yaml:"hide_footer_on_launch"`
	ToggleHeaderBySingleTap bool `toml:"toggle_header_by_single_tap" yaml:"toggle_header_by_single_tap"`
	ToggleFooterBySingleTap bool `toml:"toggle_footer_by_single_tap" yaml:"toggle_footer_by_single_tap"`
	// Offer the export action on long press.
	ExportByLongPress bool `toml:"export_by_long_press" yaml:"export_by_long_press"`

	MaximumZoomScale        float32  `toml:"maximum_zoom_scale" yaml:"maximum_zoom_scale"`
	DoubleTapZoomScale      float32  `toml:"double_tap_zoom_scale" yaml:"double_tap_zoom_scale"`
	DoubleTapToZoomDuration Duration `toml:"double_tap_to_zoom_duration" yaml:"double_tap_to_zoom_duration"`

	BlurPresentDuration  Duration `toml:"blur_present_duration" yaml:"blur_present_duration"`
	BlurPresentDelay     Duration `toml:"blur_present_delay" yaml:"blur_present_delay"`
	ColorPresentDuration Duration `toml:"color_present_duration" yaml:"color_present_duration"`
	ColorPresentDelay    Duration `toml:"color_present_delay" yaml:"color_present_delay"`
	BlurDismissDuration  Duration `toml:"blur_dismiss_duration" yaml:"blur_dismiss_duration"`
	BlurDismissDelay     Duration `toml:"blur_dismiss_delay" yaml:"blur_dismiss_delay"`
	ColorDismissDuration Duration `toml:"color_dismiss_duration" yaml:"color_dismiss_duration"`
	ColorDismissDelay    Duration `toml:"color_dismiss_delay" yaml:"color_dismiss_delay"`

	// Fade used for items when no displacement source is available.
	ItemFadeDuration             Duration `toml:"item_fade_duration" yaml:"item_fade_duration"`
	DecorationViewsCloseDuration Duration `toml:"decoration_views_close_duration" yaml:"decoration_views_close_duration"`
	HeaderFadeDuration           Duration `toml:"header_fade_duration" yaml:"header_fade_duration"`
	FooterFadeDuration           Duration `toml:"footer_fade_duration" yaml:"footer_fade_duration"`
	RotationDuration             Duration `toml:"rotation_duration" yaml:"rotation_duration"`
	PageDuration                 Duration `toml:"page_duration" yaml:"page_duration"`

	DisplacementDuration        Duration `toml:"displacement_duration" yaml:"displacement_duration"`
	ReverseDisplacementDuration Duration `toml:"reverse_displacement_duration" yaml:"reverse_displacement_duration"`
	// Keep the source thumbnail visible while it is displaced.
	DisplacementKeepOriginalInPlace bool              `toml:"displacement_keep_original_in_place" yaml:"displacement_keep_original_in_place"`
	DisplacementTimingCurve         TimingCurve       `toml:"displacement_timing_curve" yaml:"displacement_timing_curve"`
	DisplacementStyle               DisplacementStyle `toml:"displacement_style" yaml:"displacement_style"`
	// The source must intersect the viewport inset by this margin to be reverse displaced.
	DisplacementInsetMargin float32 `toml:"displacement_inset_margin" yaml:"displacement_inset_margin"`

	OverlayColor        color.NRGBA `toml:"-" yaml:"-"`
	OverlayBlurOpacity  float32     `toml:"overlay_blur_opacity" yaml:"overlay_blur_opacity"`
	OverlayColorOpacity float32     `toml:"overlay_color_opacity" yaml:"overlay_color_opacity"`

	// Points per second a release must exceed to finish a swipe or page.
	SwipeToDismissThresholdVelocity float32            `toml:"swipe_to_dismiss_threshold_velocity" yaml:"swipe_to_dismiss_threshold_velocity"`
	SwipeToDismissMode              SwipeToDismissMode `toml:"swipe_to_dismiss_mode" yaml:"swipe_to_dismiss_mode"`
	RotationMode                    RotationMode       `toml:"rotation_mode" yaml:"rotation_mode"`

	// Page from the last item to the first and back.
	CircularPaging bool `toml:"circular_paging" yaml:"circular_paging"`
	// Fraction of the viewport width a page drag has to travel to commit without a flick.
	PageCommitRatio float32 `toml:"page_commit_ratio" yaml:"page_commit_ratio"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		ImageDividerWidth:       19,
		StatusBarHidden:         true,
		ToggleHeaderBySingleTap: true,
		ToggleFooterBySingleTap: true,
		ExportByLongPress:       true,

		MaximumZoomScale:        8,
		DoubleTapZoomScale:      7,
		DoubleTapToZoomDuration: ms(150),

		BlurPresentDuration:  ms(500),
		ColorPresentDuration: ms(250),
		BlurDismissDuration:  ms(100),
		BlurDismissDelay:     ms(400),
		ColorDismissDuration: ms(450),

		ItemFadeDuration:             ms(300),
		DecorationViewsCloseDuration: ms(150),
		HeaderFadeDuration:           ms(150),
		FooterFadeDuration:           ms(150),
		RotationDuration:             ms(150),
		PageDuration:                 ms(250),

		DisplacementDuration:        ms(150),
		ReverseDisplacementDuration: ms(250),
		DisplacementTimingCurve:     CurveLinear,
		DisplacementStyle:           DisplacementNormal,
		DisplacementInsetMargin:     50,

		OverlayColor:        color.NRGBA{A: 0xff},
		OverlayBlurOpacity:  1,
		OverlayColorOpacity: 1,

		SwipeToDismissThresholdVelocity: 500,
		SwipeToDismissMode:              SwipeToDismissVertical,
		RotationMode:                    RotationAlways,

		PageCommitRatio: 0.5,
	}
}

// Validate reports the first invalid field.
func (o Options) Validate() error {
	durations := map[string]Duration{
		"double_tap_to_zoom_duration":     o.DoubleTapToZoomDuration,
		"blur_present_duration":           o.BlurPresentDuration,
		"blur_present_delay":              o.BlurPresentDelay,
		"color_present_duration":          o.ColorPresentDuration,
		"color_present_delay":             o.ColorPresentDelay,
		"blur_dismiss_duration":           o.BlurDismissDuration,
		"blur_dismiss_delay":              o.BlurDismissDelay,
		"color_dismiss_duration":          o.ColorDismissDuration,
		"color_dismiss_delay":             o.ColorDismissDelay,
		"item_fade_duration":              o.ItemFadeDuration,
		"decoration_views_close_duration": o.DecorationViewsCloseDuration,
		"header_fade_duration":            o.HeaderFadeDuration,
		"footer_fade_duration":            o.FooterFadeDuration,
		"rotation_duration":               o.RotationDuration,
		"page_duration":                   o.PageDuration,
		"displacement_duration":           o.DisplacementDuration,
		"reverse_displacement_duration":   o.ReverseDisplacementDuration,
	}
	for name, d := range durations {
		if d < 0 {
			return &OptionError{Field: name, Reason: "must not be negative"}
		}
	}

	switch {
	case o.MaximumZoomScale < 1:
		return &OptionError{Field: "maximum_zoom_scale", Reason: "must be at least 1"}
	case o.DoubleTapZoomScale < 1:
		return &OptionError{Field: "double_tap_zoom_scale", Reason: "must be at least 1"}
	case o.DisplacementInsetMargin < 0:
		return &OptionError{Field: "displacement_inset_margin", Reason: "must not be negative"}
	case o.DisplacementStyle.Bounce < 0 || o.DisplacementStyle.Bounce > 1:
		return &OptionError{Field: "displacement_style.bounce", Reason: "must be within (0, 1]"}
	case o.SwipeToDismissThresholdVelocity < 0:
		return &OptionError{Field: "swipe_to_dismiss_threshold_velocity", Reason: "must not be negative"}
	case o.PageCommitRatio <= 0 || o.PageCommitRatio > 1:
		return &OptionError{Field: "page_commit_ratio", Reason: "must be within (0, 1]"}
	case o.OverlayBlurOpacity < 0 || o.OverlayBlurOpacity > 1:
		return &OptionError{Field: "overlay_blur_opacity", Reason: "must be within [0, 1]"}
	case o.OverlayColorOpacity < 0 || o.OverlayColorOpacity > 1:
		return &OptionError{Field: "overlay_color_opacity", Reason: "must be within [0, 1]"}
	}
	return nil
}

// LoadOptions reads options from a TOML or YAML file on top of DefaultOptions.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}

	opts := DefaultOptions()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &opts); err != nil {
			return Options{}, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return Options{}, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return Options{}, fmt.Errorf("%w: %s", ErrUnsupportedOptionsFormat, path)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// EncodeTOML writes the options in the same format LoadOptions reads.
func (o Options) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Duration is a time.Duration that reads and writes as "150ms" in option files.
type Duration time.Duration

func ms(v int) Duration {
	return Duration(time.Duration(v) * time.Millisecond)
}

// D returns the standard library duration.
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}
