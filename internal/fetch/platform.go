package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

// Known platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformProfile struct {
	hosts   []string
	content []string
	noise   []string
}

var platforms = map[Platform]platformProfile{
	PlatformGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='descriptionText']", "main"},
		noise:   []string{"[class*='applicationForm']"},
	},
}

// Noise present on most job boards: application forms, EEO notices, share widgets.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".social-links",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board platform from a URL host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for platform, profile := range platforms {
		for _, h := range profile.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform, ending
// with the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	profile, ok := platforms[platform]
	if !ok {
		return JobPostingSelectors()
	}
	return append(append([]string{}, profile.content...), JobPostingSelectors()...)
}

// PlatformNoiseSelectors returns the common noise selectors plus the platform's own.
func PlatformNoiseSelectors(platform Platform) []string {
	noise := append([]string{}, commonNoise...)
	return append(noise, platforms[platform].noise...)
}
