package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/delphia/internal/extract"
)

// factRule builds the common rule shape: join the bound tokens into a
// subject, resolve its fact block, pull one field out and render a sentence.
// Extracted values are trimmed before rendering.
func factRule(source FactSource, pattern string, tmpl *extract.Template, render func(subject, value string) string) Rule {
	return Rule{
		Pattern: strings.Fields(pattern),
		Action: func(ctx context.Context, args []string) ([]string, error) {
			subject := strings.Join(args, " ")

			block, err := source.FactBlock(ctx, subject)
			if err != nil {
				return nil, err
			}

			value, err := tmpl.Extract(block)
			if err != nil {
				return nil, err
			}

			return []string{render(subject, strings.TrimSpace(value))}, nil
		},
	}
}

// builtinRules is the production question table. Order is priority: the
// first matching pattern answers the question. Both established phrasings
// share the establishment template.
func builtinRules(source FactSource) []Rule {
	return []Rule{
		factRule(source, "when was % born", extract.BirthDate, func(subject, value string) string {
			return fmt.Sprintf("%s was born on this date: %s", subject, value)
		}),
		factRule(source, "what is the polar radius of %", extract.PolarRadius, func(subject, value string) string {
			return fmt.Sprintf("the polar radius of %s is %s km", subject, value)
		}),
		factRule(source, "when was % established", extract.Established, establishedSentence),
		factRule(source, "what is the population of %", extract.Population, func(subject, value string) string {
			return fmt.Sprintf("%s has a population of %s", subject, value)
		}),
		factRule(source, "what year was % established", extract.Established, establishedSentence),
		factRule(source, "what is the undergraduate population of %", extract.Undergraduates, func(subject, value string) string {
			return fmt.Sprintf("%s has an undergraduate population of %s", subject, value)
		}),
		{Pattern: []string{"bye"}, Terminal: true},
	}
}

func establishedSentence(subject, value string) string {
	return fmt.Sprintf("%s was established in %s", subject, value)
}
