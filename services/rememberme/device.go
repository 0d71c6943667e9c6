package rememberme

import (
	"github.com/mileusna/useragent"
)

// FormatDeviceName turns a raw User-Agent into a short human label, e.g.
// "Firefox 121.0 on Ubuntu". Used when the caller does not name the device.
func FormatDeviceName(userAgentString string) string {
	if userAgentString == "" || userAgentString == unknownValue {
		return "Unknown device"
	}

	ua := useragent.Parse(userAgentString)

	var browser string
	if ua.Name != "" {
		browser = ua.Name
		if ua.Version != "" {
			browser += " " + ua.Version
		}
	}

	var os string
	if ua.OS != "" {
		os = ua.OS
		if ua.OSVersion != "" {
			os += " " + ua.OSVersion
		}
	}

	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "Unknown device"
	}
}

// DeviceInfo breaks a User-Agent down for a "manage devices" surface.
func DeviceInfo(userAgentString string) map[string]any {
	ua := useragent.Parse(userAgentString)

	deviceType := "desktop"
	switch {
	case ua.Mobile:
		deviceType = "mobile"
	case ua.Tablet:
		deviceType = "tablet"
	case ua.Bot:
		deviceType = "bot"
	}

	return map[string]any{
		"browser":         ua.Name,
		"browser_version": ua.Version,
		"os":              ua.OS,
		"os_version":      ua.OSVersion,
		"device_type":     deviceType,
	}
}
