package sqlinline

import (
	"regexp"
	"strings"
	"testing"
)

var markerLine = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestStatementsCarryUniqueMarkers(t *testing.T) {
	statements := map[string]string{
		"QEnsureIntegrationTokens":  QEnsureIntegrationTokens,
		"QSelectIntegrationToken":   QSelectIntegrationToken,
		"QUpsertIntegrationToken":   QUpsertIntegrationToken,
		"QListIntegrationProviders": QListIntegrationProviders,
	}
	seen := map[string]string{}
	for name, stmt := range statements {
		first, _, _ := strings.Cut(stmt, "\n")
		if !markerLine.MatchString(first) {
			t.Fatalf("%s: invalid marker line %q", name, first)
		}
		if prev, dup := seen[first]; dup {
			t.Fatalf("%s reuses the marker of %s", name, prev)
		}
		seen[first] = name
	}
}
