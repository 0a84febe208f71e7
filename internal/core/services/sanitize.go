package services

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// SanitizeConfig is the denylist table driving the print-safe transform.
// The defaults cover the visual effects the rasterizing engine cannot
// handle: layered gradients, blurs, multi-layer shadows, and colors
// expressed in functions it cannot parse.
type SanitizeConfig struct {
	// StripClasses are removed from every element's class list.
	StripClasses []string

	// BackgroundFallbacks maps a class to the solid background color that
	// replaces its themed background.
	BackgroundFallbacks map[string]string

	// ColorFallbacks maps a class to the solid text color that replaces
	// its themed color.
	ColorFallbacks map[string]string

	// UnsupportedColorFn matches color function syntax the engine cannot
	// parse in inline styles.
	UnsupportedColorFn *regexp.Regexp
}

// DefaultSanitizeConfig returns the denylist used for compliance reports.
func DefaultSanitizeConfig() SanitizeConfig {
	return SanitizeConfig{
		StripClasses: []string{
			"bg-gradient-to-br",
			"bg-linear-to-br",
			"backdrop-blur",
			"shadow-xl",
			"shadow-lg",
			"shadow-md",
			"shadow-sm",
		},
		BackgroundFallbacks: map[string]string{
			"bg-purple-200": "#e9d5ff",
			"bg-white":      "#ffffff",
			"bg-primary":    "#3b82f6",
		},
		ColorFallbacks: map[string]string{
			"text-primary":   "#3b82f6",
			"text-green-600": "#059669",
		},
		UnsupportedColorFn: regexp.MustCompile(`lab\(|oklch\(|var\(`),
	}
}

// Sanitize applies the print-safe transform to the subtree rooted at n,
// in place. Callers pass a clone; the live view is never mutated.
func Sanitize(n *html.Node, cfg SanitizeConfig) {
	if n.Type == html.ElementNode {
		sanitizeElement(n, cfg)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		Sanitize(child, cfg)
	}
}

func sanitizeElement(n *html.Node, cfg SanitizeConfig) {
	classes := strings.Fields(getAttr(n, "class"))
	kept := classes[:0]
	var extraStyles []string

	for _, class := range classes {
		if containsString(cfg.StripClasses, class) {
			continue
		}
		if bg, ok := cfg.BackgroundFallbacks[class]; ok {
			extraStyles = append(extraStyles, "background-color: "+bg)
		}
		if color, ok := cfg.ColorFallbacks[class]; ok {
			extraStyles = append(extraStyles, "color: "+color)
		}
		kept = append(kept, class)
	}

	if len(kept) == 0 {
		removeAttr(n, "class")
	} else {
		setAttr(n, "class", strings.Join(kept, " "))
	}

	style := sanitizeStyle(getAttr(n, "style"), cfg)
	if len(extraStyles) > 0 {
		joined := strings.Join(extraStyles, "; ")
		if style == "" {
			style = joined
		} else {
			style = style + "; " + joined
		}
	}
	if style == "" {
		removeAttr(n, "style")
	} else {
		setAttr(n, "style", style)
	}
}

// sanitizeStyle rewrites one inline style attribute declaration by
// declaration. Custom properties are dropped; declarations using a color
// function the engine cannot parse are replaced with safe fallbacks.
func sanitizeStyle(style string, cfg SanitizeConfig) string {
	if style == "" {
		return ""
	}

	var kept []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		prop = strings.TrimSpace(prop)
		value = strings.TrimSpace(value)

		if strings.HasPrefix(prop, "--") {
			continue
		}
		if !cfg.UnsupportedColorFn.MatchString(value) {
			kept = append(kept, prop+": "+value)
			continue
		}

		switch {
		case strings.Contains(prop, "background"):
			kept = append(kept, prop+": #ffffff")
		case prop == "color" || strings.HasSuffix(prop, "-color"):
			kept = append(kept, prop+": #000000")
		default:
			kept = append(kept, prop+": none")
		}
	}
	return strings.Join(kept, "; ")
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// setAttr sets the named attribute, replacing any existing value.
func setAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// removeAttr deletes the named attribute if present.
func removeAttr(n *html.Node, name string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
