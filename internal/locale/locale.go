// Package locale resolves human-readable method labels for a requested locale.
package locale

import (
	"golang.org/x/text/language"
)

// Supported lists the locales with label tables, the first being the fallback
var Supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(Supported)

var labels = map[language.Tag]map[string]string{
	language.English: {
		"independent-ttest":    "Independent Samples t-Test",
		"paired-ttest":         "Paired Samples t-Test",
		"one-sample-ttest":     "One-Sample t-Test",
		"mann-whitney":         "Mann-Whitney U Test",
		"wilcoxon-signed-rank": "Wilcoxon Signed-Rank Test",
		"kruskal-wallis":       "Kruskal-Wallis H Test",
		"one-way-anova":        "One-Way ANOVA",
		"linear-regression":    "Linear Regression",
		"kaplan-meier":         "Kaplan-Meier Survival Analysis",
		"roc-curve":            "ROC Curve Analysis",
	},
	language.Korean: {
		"independent-ttest":    "독립표본 t-검정",
		"paired-ttest":         "대응표본 t-검정",
		"one-sample-ttest":     "일표본 t-검정",
		"mann-whitney":         "Mann-Whitney U 검정",
		"wilcoxon-signed-rank": "Wilcoxon 부호순위 검정",
		"kruskal-wallis":       "Kruskal-Wallis H 검정",
		"one-way-anova":        "일원분산분석",
		"linear-regression":    "선형 회귀분석",
		"kaplan-meier":         "Kaplan-Meier 생존분석",
		"roc-curve":            "ROC 곡선 분석",
	},
}

// Match returns the supported tag closest to the requested BCP 47 locale.
// Unparseable or unsupported input falls back to English.
func Match(requested string) language.Tag {
	if requested == "" {
		return Supported[0]
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return Supported[0]
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return Supported[0]
	}
	return Supported[index]
}

// Label returns the method label for a locale; unknown methods echo the id
func Label(methodID, requested string) string {
	tag := Match(requested)
	if label, ok := labels[tag][methodID]; ok {
		return label
	}
	if label, ok := labels[Supported[0]][methodID]; ok {
		return label
	}
	return methodID
}
