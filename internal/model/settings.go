package model

// WallpaperStyle values are in a 1080-pixel-tall reference frame and are
// scaled linearly for other resolutions. PaddingPercent is a percentage and
// never scaled.
type WallpaperStyle struct {
	TitleFontSize  float64 `json:"titleFontSize" yaml:"titleFontSize"`
	TaskFontSize   float64 `json:"taskFontSize" yaml:"taskFontSize"`
	PaddingPercent float64 `json:"paddingPercent" yaml:"paddingPercent"`
	LineGap        float64 `json:"lineGap" yaml:"lineGap"`
}

type AppSettings struct {
	APIKey              string         `json:"apiKey" yaml:"apiKey"`
	APIBaseURL          string         `json:"apiBaseUrl" yaml:"apiBaseUrl"`
	WallpaperPath       string         `json:"wallpaperPath" yaml:"wallpaperPath"`
	WallpaperResolution string         `json:"wallpaperResolution" yaml:"wallpaperResolution"`
	WallpaperStyle      WallpaperStyle `json:"wallpaperStyle" yaml:"wallpaperStyle"`
}

const (
	Resolution1080p = "1920x1080"
	Resolution1440p = "2560x1440"
	Resolution2160p = "3840x2160"
)

var Resolutions = []string{Resolution1080p, Resolution1440p, Resolution2160p}

func DefaultWallpaperStyle() WallpaperStyle {
	return WallpaperStyle{
		TitleFontSize:  40,
		TaskFontSize:   26,
		PaddingPercent: 10,
		LineGap:        42,
	}
}

// DefaultSettings is the single source of truth for the shape of
// AppSettings; persisted settings are merged over it on load.
func DefaultSettings() AppSettings {
	return AppSettings{
		WallpaperResolution: Resolution1080p,
		WallpaperStyle:      DefaultWallpaperStyle(),
	}
}
