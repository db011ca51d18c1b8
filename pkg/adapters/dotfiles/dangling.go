package dotfiles

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/macsetup/pkg/types"
)

// DanglingLink is a dotfile target that no longer resolves to its source.
type DanglingLink struct {
	Identifier types.Identifier `json:"identifier"`
	Target     string           `json:"target"`
	Source     string           `json:"source"`
	// Problem describes what's wrong with the link
	Problem string `json:"problem"`
}

// DetectDangling inspects the symlink-mode dotfile items and reports links
// whose source has disappeared or that point somewhere else. Targets that
// don't exist yet are not reported; they simply haven't been applied.
func (a *Adapter) DetectDangling(items []types.InstallItem) []DanglingLink {
	var dangling []DanglingLink
	for _, item := range items {
		if item.Category != types.CategoryDotfile {
			continue
		}
		p, err := item.Dotfile()
		if err != nil || p.Mode == types.DotfileCopy {
			continue
		}

		info, err := a.fs.Lstat(p.Target)
		if err != nil || info.Mode()&fs.ModeSymlink == 0 {
			continue
		}

		dest, err := a.fs.Readlink(p.Target)
		if err != nil {
			a.logger.Debug().Err(err).Str("target", p.Target).Msg("Cannot read link")
			continue
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(p.Target), dest)
		}

		link := DanglingLink{Identifier: item.ID(), Target: p.Target, Source: p.Source}
		switch {
		case filepath.Clean(dest) != filepath.Clean(p.Source):
			link.Problem = "points to " + dest
		default:
			if _, err := a.fs.Stat(p.Source); os.IsNotExist(err) {
				link.Problem = "source file missing"
			}
		}
		if link.Problem != "" {
			dangling = append(dangling, link)
		}
	}
	return dangling
}
