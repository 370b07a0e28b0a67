package delivery

import "time"

// MediaAccept is the accept attribute of the photos/videos file input
const MediaAccept = "image/*,video/mp4,video/3gpp,video/quicktime"

// Selectors are XPath expressions locating the chat UI controls. The DOM
// belongs to a third party and changes without notice, so every selector
// can be overridden from configuration.
type Selectors struct {
	Composer       string `json:"composer" mapstructure:"composer"`
	AttachmentMenu string `json:"attachment_menu" mapstructure:"attachment_menu"`
	MediaCategory  string `json:"media_category" mapstructure:"media_category"`
	FileInput      string `json:"file_input" mapstructure:"file_input"`
	Caption        string `json:"caption" mapstructure:"caption"`
	Send           string `json:"send" mapstructure:"send"`
}

// DefaultSelectors returns the selectors known to work with WhatsApp Web
func DefaultSelectors() Selectors {
	return Selectors{
		Composer:       `//div[@contenteditable="true"][@data-tab="10"]`,
		AttachmentMenu: `//*[@id="main"]/footer/div[1]/div/span/div/div[1]/div/button/span`,
		MediaCategory:  `//*[@id="app"]/div/span[5]/div/ul/div/div/div[2]`,
		FileInput:      `//input[@accept="` + MediaAccept + `"]`,
		Caption:        `//div[@contenteditable="true"][@data-tab="10"]`,
		Send:           `//span[@data-icon="send"]`,
	}
}

// Timeouts bound each wait of the state machine
type Timeouts struct {
	Navigate time.Duration // conversation load
	Step     time.Duration // every other control
}

// DefaultTimeouts returns the steady-state wait bounds
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Navigate: 20 * time.Second,
		Step:     10 * time.Second,
	}
}

// Pauses are the settle periods after each interaction
type Pauses struct {
	Menu    time.Duration
	Media   time.Duration
	Upload  time.Duration
	Caption time.Duration
	Send    time.Duration // network transmission
}

// DefaultPauses returns the settle periods used against WhatsApp Web
func DefaultPauses() Pauses {
	return Pauses{
		Menu:    time.Second,
		Media:   time.Second,
		Upload:  2 * time.Second,
		Caption: time.Second,
		Send:    10 * time.Second,
	}
}

// Config holds everything a Sender needs
type Config struct {
	ConversationURL string
	Caption         string
	Selectors       Selectors
	Timeouts        Timeouts
	Pauses          Pauses
}
