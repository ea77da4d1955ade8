// ABOUTME: Writing tones selectable from the command line
// ABOUTME: Unknown tone names silently fall back to the default tone
package models

import "strings"

// Tone selects the register of the generated post
type Tone string

const (
	ToneDefault Tone = "default"
	ToneCasual  Tone = "casual"
	ToneFormal  Tone = "formal"
)

// Tones lists the supported tones
var Tones = []Tone{ToneDefault, ToneCasual, ToneFormal}

// ParseTone maps a user-supplied name to a Tone, defaulting when unrecognized
func ParseTone(name string) Tone {
	t := Tone(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Tones {
		if t == known {
			return t
		}
	}
	return ToneDefault
}
