package docmeta

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docsite/internal/frontmatter"
)

const keyLastmod = "lastmod"

// Fingerprint returns the content fingerprint of a raw document.
//
// Header keys are serialized canonically (sorted, LF newlines) so that
// reordering or re-indenting the header does not change the result. The
// fingerprint and lastmod keys are excluded.
func Fingerprint(raw []byte) (string, error) {
	fields, body := Fields(raw)

	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField || k == keyLastmod {
			continue
		}
		hashed[k] = v
	}

	header := ""
	if len(hashed) > 0 {
		serialized, err := frontmatter.SerializeCanonical(hashed)
		if err != nil {
			return "", err
		}
		header = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(header, string(body)), nil
}
