package models

import "strings"

// Saturation is the crowding level of a niche
type Saturation string

const (
	SaturationOpen    Saturation = "open"
	SaturationBusy    Saturation = "busy"
	SaturationCrowded Saturation = "crowded"
)

// ParseSaturation normalizes a model-supplied saturation value.
// The second return value is false for anything outside the three levels.
func ParseSaturation(s string) (Saturation, bool) {
	switch sat := Saturation(strings.ToLower(strings.TrimSpace(s))); sat {
	case SaturationOpen, SaturationBusy, SaturationCrowded:
		return sat, true
	default:
		return "", false
	}
}

// Platform is the social platform a search is targeted at
type Platform string

const (
	PlatformAll       Platform = "all"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
)

// Valid reports whether p is one of the supported platforms.
// The empty platform is treated as "all" by callers and is not valid here.
func (p Platform) Valid() bool {
	switch p {
	case PlatformAll, PlatformTikTok, PlatformYouTube, PlatformInstagram:
		return true
	}
	return false
}

// Niche is a single suggestion card
type Niche struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Saturation      Saturation `json:"saturation"`
	SaturationLabel string     `json:"saturationLabel"`
	Why             string     `json:"why"`
	Twists          []string   `json:"twists"`
	CardGradient    string     `json:"cardGradient"`
}

// Clone returns a deep copy so callers can never share twist slices.
func (n Niche) Clone() Niche {
	c := n
	if n.Twists != nil {
		c.Twists = append([]string(nil), n.Twists...)
	}
	return c
}

// NicheList is the response envelope for both discovery endpoints
type NicheList struct {
	Niches []Niche `json:"niches"`
}
