package importer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Recognizable image extensions. A CSV reference carrying one of these is
// rejected up front: references must be bare names so authors never have to
// know the final upload's extension.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

// MatchResult is the outcome of reconciling CSV image references against the
// locally supplied files.
type MatchResult struct {
	// Missing are references with no supplied file; their rows will import
	// with an empty image field if the operator proceeds anyway.
	Missing []string
	// Unused are supplied files no row references; they are not uploaded.
	Unused []string
	// Upload is the filtered supply set (referenced AND supplied), as the
	// original filenames with extensions.
	Upload []string
}

// Clean reports whether every reference matched and every file is used.
func (m MatchResult) Clean() bool {
	return len(m.Missing) == 0 && len(m.Unused) == 0
}

// StripExtension returns the matching key for a filename: the base name with
// its extension removed.
func StripExtension(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CollectImageRefs extracts every image reference (image_url plus
// additional_images) from the parsed rows.
func CollectImageRefs(rows []ParsedRow) []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || seen[raw] {
			return
		}
		seen[raw] = true
		refs = append(refs, raw)
	}

	for _, row := range rows {
		add(field(row.Fields, colImageURL))
		for _, ref := range strings.Split(field(row.Fields, colAdditionalImages), ",") {
			add(ref)
		}
	}
	return refs
}

// MatchImages cross-references CSV image references against the supplied
// filenames. If any reference still carries a recognizable image extension
// the whole operation is rejected, forcing authors to use bare names.
// Mismatches themselves are not errors; they are surfaced for operator
// confirmation.
func MatchImages(refs []string, supplied []string) (MatchResult, error) {
	for _, ref := range refs {
		if ext := strings.ToLower(filepath.Ext(ref)); imageExtensions[ext] {
			return MatchResult{}, fmt.Errorf("image reference %q includes a file extension; use the bare name %q", ref, StripExtension(ref))
		}
	}

	suppliedByKey := make(map[string]string, len(supplied))
	for _, name := range supplied {
		suppliedByKey[StripExtension(name)] = name
	}

	refKeys := make(map[string]bool, len(refs))
	result := MatchResult{}
	for _, ref := range refs {
		key := StripExtension(ref)
		refKeys[key] = true
		if file, ok := suppliedByKey[key]; ok {
			result.Upload = append(result.Upload, file)
		} else {
			result.Missing = append(result.Missing, ref)
		}
	}

	for key, name := range suppliedByKey {
		if !refKeys[key] {
			result.Unused = append(result.Unused, name)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Unused)
	sort.Strings(result.Upload)
	return result, nil
}
