// Package gitops handles feature branch naming and git operations.
//
// Branch names follow the "NNN-slug" convention: a three-digit feature
// ordinal followed by a slug of the feature description. The ordinal is
// derived from the existing feature directories under the specs root,
// so numbering survives deleted branches.
package gitops

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const maxSlugLen = 50

// Slugify converts a feature description into a branch/directory-safe
// slug. Example: "Add OAuth2 login flow" → "add-oauth2-login-flow".
//
// Rules:
//   - Lowercase
//   - Spaces and underscores become hyphens
//   - Non-alphanumeric characters (except hyphens) are removed
//   - Consecutive hyphens are collapsed
//   - Leading/trailing hyphens are trimmed
//   - Truncated to 50 characters (at a word boundary if possible)
//   - Empty input returns "unnamed-feature"
func Slugify(description string) string {
	if strings.TrimSpace(description) == "" {
		return "unnamed-feature"
	}

	s := strings.ToLower(strings.TrimSpace(description))

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '_' || r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")

	if slug == "" {
		return "unnamed-feature"
	}

	if len(slug) <= maxSlugLen {
		return slug
	}

	// Truncate at word boundary if possible.
	truncated := slug[:maxSlugLen]
	if lastHyphen := strings.LastIndex(truncated, "-"); lastHyphen > maxSlugLen/2 {
		truncated = truncated[:lastHyphen]
	}

	return strings.TrimRight(truncated, "-")
}

// featureDirRe matches feature directory names under the specs root.
var featureDirRe = regexp.MustCompile(`^(\d{3})-`)

// NextFeatureNumber scans specsDir for existing NNN-* feature
// directories and returns the next ordinal. A missing specs directory
// yields 1 — the first feature creates it.
func NextFeatureNumber(specsDir string) (int, error) {
	entries, err := os.ReadDir(specsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("reading specs directory %s: %w", specsDir, err)
	}

	highest := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := featureDirRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

// BranchName builds the canonical "NNN-slug" name. The same name is
// used for the feature directory under the specs root.
func BranchName(num int, description string) string {
	return fmt.Sprintf("%03d-%s", num, Slugify(description))
}
