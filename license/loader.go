// Copyright Amazon.com Inc or its affiliates and the project contributors
// Written by James Shubin <purple@amazon.com> and the project contributors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.
//
// We will never require a CLA to submit a patch. All contributions follow the
// `inbound == outbound` rule.
//
// This is not an official Amazon product. Amazon does not offer support for
// this project.

package license

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// frontmatterDelim matches a line that is *only* three-or-more dashes,
// optionally followed by trailing whitespace. Naive splitting on the
// substring "---" is wrong: scancode-style rule bodies routinely contain a
// literal "---" inside the license text itself (e.g. separator lines in
// BSD-style notices), and a substring split has historically truncated a
// sizeable fraction of a rule corpus at the first stray occurrence. The
// delimiter must be matched as a whole line.
var frontmatterDelim = regexp.MustCompile(`(?m)^-{3,}\s*$`)

// frontmatter is the subset of rule/license frontmatter fields this engine
// consumes. Unknown YAML keys are ignored by yaml.v3 by default.
type frontmatter struct {
	LicenseExpression    string   `yaml:"license_expression"`
	SPDXLicenseKey       string   `yaml:"spdx_license_key"`
	OtherSPDXLicenseKeys []string `yaml:"other_spdx_license_keys"`

	IsLicenseText      bool `yaml:"is_license_text"`
	IsLicenseNotice    bool `yaml:"is_license_notice"`
	IsLicenseReference bool `yaml:"is_license_reference"`
	IsLicenseIntro     bool `yaml:"is_license_intro"`
	IsLicenseClue      bool `yaml:"is_license_clue"`
	IsLicenseTag       bool `yaml:"is_license_tag"`

	IsDeprecated bool `yaml:"is_deprecated"`

	Relevance       *int `yaml:"relevance"`
	MinimumCoverage *int `yaml:"minimum_coverage"`

	ReferencedFilenames []string `yaml:"referenced_filenames"`

	// Name and Category are only meaningful on .LICENSE files; .RULE
	// files don't carry license metadata beyond the SPDX key.
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// rawRule is a loaded-but-not-yet-indexed rule: its body has been tokenized
// into strings and its required-phrase spans computed, but token ids have
// not been assigned (that happens once, corpus-wide, in Build).
type rawRule struct {
	identifier          string
	meta                frontmatter
	tokens              []string
	requiredPhraseSpans []Span
	path                string
}

// LoadOptions configures rule corpus loading.
type LoadOptions struct {
	// WithDeprecated includes deprecated rules in the index when true.
	// Default (zero value) is false.
	WithDeprecated bool

	Logf Logf
}

// LoadCorpus reads the `<root>/licenses/*.LICENSE` and `<root>/rules/*.RULE`
// files and returns the raw (un-indexed) rules plus the License metadata
// table. A malformed individual file is logged and skipped, never fatal;
// an empty corpus is reported to the caller via len(rules) == 0, which
// Build turns into ErrNoRulesLoaded.
func LoadCorpus(root string, opts LoadOptions) ([]*rawRule, []*License, error) {
	var rules []*rawRule
	var licenses []*License

	licenseDir := filepath.Join(root, "licenses")
	licenseRules, licenseMeta, err := loadDir(licenseDir, ".LICENSE", true, opts)
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, errors.Wrapf(err, "error reading license dir %s", licenseDir)
	}
	rules = append(rules, licenseRules...)
	licenses = append(licenses, licenseMeta...)

	ruleDir := filepath.Join(root, "rules")
	ruleRules, _, err := loadDir(ruleDir, ".RULE", false, opts)
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, errors.Wrapf(err, "error reading rule dir %s", ruleDir)
	}
	rules = append(rules, ruleRules...)

	return rules, licenses, nil
}

func loadDir(dir, ext string, isLicenseFile bool, opts LoadOptions) ([]*rawRule, []*License, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var rules []*rawRule
	var licenses []*License
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := loadOne(path, isLicenseFile)
		if err != nil {
			opts.Logf.logf("license: skipping %s: %+v", path, err)
			continue
		}
		if raw.meta.IsDeprecated && !opts.WithDeprecated {
			continue
		}
		rules = append(rules, raw)

		if isLicenseFile && raw.meta.SPDXLicenseKey != "" {
			licenses = append(licenses, &License{
				SPDXLicenseKey: raw.meta.SPDXLicenseKey,
				Name:           raw.meta.Name,
				Category:       raw.meta.Category,
				IsDeprecated:   raw.meta.IsDeprecated,
			})
		}
	}
	return rules, licenses, nil
}

func loadOne(path string, isLicenseFile bool) (*rawRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading rule file")
	}

	meta, body, err := splitFrontmatter(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing frontmatter")
	}

	tokens, spans, err := TokenizeMarked(body)
	if err != nil {
		return nil, errors.Wrapf(err, "error tokenizing rule body")
	}

	identifier := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if !meta.IsLicenseText && !meta.IsLicenseNotice && !meta.IsLicenseReference &&
		!meta.IsLicenseIntro && !meta.IsLicenseClue && !meta.IsLicenseTag && isLicenseFile {
		// A .LICENSE file with no explicit classification defaults to
		// being the canonical full license text.
		meta.IsLicenseText = true
	}

	return &rawRule{
		identifier:          identifier,
		meta:                meta,
		tokens:              tokens,
		requiredPhraseSpans: spans,
		path:                path,
	}, nil
}

// splitFrontmatter separates the optional YAML frontmatter block from the
// rule body. Frontmatter, when present, is delimited on both sides by a
// line matching frontmatterDelim.
func splitFrontmatter(content string) (frontmatter, string, error) {
	var meta frontmatter

	loc := frontmatterDelim.FindAllStringIndex(content, 2)
	if len(loc) < 2 || loc[0][0] != 0 {
		// No frontmatter block (or it doesn't start at the top of the
		// file): the whole file is body text.
		return meta, content, nil
	}

	yamlBlock := content[loc[0][1]:loc[1][0]]
	body := content[loc[1][1]:]

	if strings.TrimSpace(yamlBlock) != "" {
		if err := yaml.Unmarshal([]byte(yamlBlock), &meta); err != nil {
			return meta, "", errors.Wrapf(err, "invalid yaml frontmatter")
		}
	}

	return meta, body, nil
}
