// Offline pack linter. Run before an event to catch content mistakes
// that would otherwise surface as silent match failures on the floor.
//
//	go run ./cmd/packlint -pack data/offline_pack/offline_pack.json
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"event-kiosk-be/pkg/offlinepack"
	"event-kiosk-be/pkg/textnorm"

	"github.com/fatih/color"
)

var validLangs = map[string]bool{"EN": true, "AR": true, "FR": true}

func main() {
	packPath := flag.String("pack", "data/offline_pack/offline_pack.json", "path to the offline pack JSON")
	flag.Parse()

	entries, err := offlinepack.Load(*packPath)
	if err != nil {
		color.Red("✗ Failed to load pack: %v", err)
		os.Exit(1)
	}
	if entries == nil {
		color.Yellow("! No pack file at %s (the kiosk will run without offline answers)", *packPath)
		return
	}

	var problems []string
	warn := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	seenIDs := map[string]string{}
	seenVariants := map[string]string{}
	for i, e := range entries {
		label := fmt.Sprintf("entry %d (%s)", i, e.ID)

		if e.ID == "" {
			warn("%s: missing id", label)
		} else if prev, dup := seenIDs[e.ID]; dup {
			warn("%s: duplicate id, first seen in %s", label, prev)
		} else {
			seenIDs[e.ID] = label
		}

		if !validLangs[e.Lang] {
			warn("%s: lang %q is not one of EN, AR, FR", label, e.Lang)
		}

		if len(e.QuestionVariants) == 0 {
			warn("%s: no question variants, entry can never match", label)
		}
		for _, v := range e.QuestionVariants {
			nv := e.Lang + "|" + textnorm.Normalize(v)
			if prev, dup := seenVariants[nv]; dup && prev != label {
				warn("%s: variant %q collides with %s after normalization", label, v, prev)
			} else {
				seenVariants[nv] = label
			}
		}

		if strings.TrimSpace(e.Answer.Direct) == "" && len(e.Answer.Steps) == 0 {
			warn("%s: answer has no direct line and no steps", label)
		}

		if len(e.SourceIDs) == 0 {
			warn("%s: no source_ids, entry can never pass retrieval validation", label)
		}
	}

	fmt.Printf("Checked %d entries in %s\n", len(entries), *packPath)
	if len(problems) == 0 {
		color.Green("✓ Pack is clean")
		return
	}
	for _, p := range problems {
		color.Red("✗ %s", p)
	}
	color.Yellow("%d problem(s) found", len(problems))
	os.Exit(1)
}
