package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"chainmigrator/internal/domain"
)

const migrationTemplate = `package migrations

import (
	"context"
	"database/sql"

	"chainmigrator/internal/domain"
)

func init() {
	register(domain.Migration{
		ID:       "{{.ID}}",
		ParentID: "{{.ParentID}}",
		Name:     "{{.Name}}",
		Up:       mig_{{.ID}}_up,
		Down:     mig_{{.ID}}_down,
	})
}

func mig_{{.ID}}_up(ctx context.Context, tx *sql.Tx) error {
	return nil
}

func mig_{{.ID}}_down(ctx context.Context, tx *sql.Tx) error {
	return nil
}
`

// Create scaffolds a new unit file in dir, chained onto the current head
// of units. The generated id is a 12-char hex string in the style of the
// existing unit set.
func Create(dir, name string, units []domain.Migration) (string, error) {
	ordered, err := Resolve(units)
	if err != nil {
		return "", err
	}
	parentID := ""
	if len(ordered) > 0 {
		parentID = ordered[len(ordered)-1].ID
	}

	name = sanitizeName(name)
	if name == "" {
		return "", errors.New("migration name is empty after sanitizing")
	}

	taken := make(map[string]bool, len(ordered))
	for _, u := range ordered {
		taken[u.ID] = true
	}

	in := struct {
		ID       string
		ParentID string
		Name     string
	}{
		ID:       uniqueUnitID(taken, newUnitID),
		ParentID: parentID,
		Name:     name,
	}

	tmpl, err := template.New(name).Parse(migrationTemplate)
	if err != nil {
		return "", errors.Wrap(err, "unable to parse template")
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, in); err != nil {
		return "", errors.Wrap(err, "unable to execute template")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.go", in.ID, name))
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return "", errors.Wrap(err, "unable to write migration file")
	}
	return path, nil
}

func newUnitID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// uniqueUnitID draws ids from gen until one is free of the existing set.
// Truncated ids leave a small collision window; the set is already in hand,
// so checking is cheaper than letting the resolver reject the chain later.
func uniqueUnitID(taken map[string]bool, gen func() string) string {
	id := gen()
	for taken[id] {
		id = gen()
	}
	return id
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
