package cli

import (
	"fmt"
	"slices"
	"strings"
)

// demoTexts are sample job ads for trying the job_ad_bias profile.
var demoTexts = map[string]string{
	"tech":       "We need a ROCKSTAR Python ninja who can dominate the codebase! Must be aggressive in code reviews and work hard/play hard.",
	"healthcare": "Seeking a compassionate nurse to nurture elderly patients. Must be quietly supportive and emotionally intelligent.",
	"neutral":    "Software Engineer needed. Requirements: 3+ years Python experience, strong problem-solving skills.",
}

func demoNames() []string {
	names := make([]string, 0, len(demoTexts))
	for name := range demoTexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func demoText(name string) (string, error) {
	text, ok := demoTexts[name]
	if !ok {
		return "", fmt.Errorf("unknown demo %q; expected one of %s", name, strings.Join(demoNames(), ", "))
	}
	return text, nil
}
