// Package anacache memoizes 0-CFA analysis results across runs in a sqlite
// database, keyed by a fingerprint of the builtin map and labeled-term
// shape. The teacher repo declares modernc.org/sqlite as a dependency (for
// ext-bound database access from scripts) without exercising it directly in
// Go; this package gives that dependency a concrete, exercised home: a
// content-addressed cache for the one expensive, pure computation in this
// module (constraint solving).
package anacache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/aathn/dppl-core/internal/cfa"
	"github.com/aathn/dppl-core/internal/label"
	"github.com/aathn/dppl-core/internal/term"
)

// Cache wraps a sqlite-backed key/value store of serialized analysis
// results.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) a sqlite database at path and ensures
// the cache table exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("anacache: opening %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS analysis_cache (
	fingerprint TEXT PRIMARY KEY,
	n_labels    INTEGER NOT NULL,
	data        BLOB NOT NULL,
	mark        BLOB NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("anacache: creating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }

// entry is the JSON-serializable shape of one cached cfa.Data/cfa.Mark pair: the
// abstract value's interned index (dense per-run, recomputed on load
// against the caller's own Interner).
type entry struct {
	NLabels int      `json:"n_labels"`
	Sets    [][]int  `json:"sets"` // per-label list of interned indices
	Mark    []bool   `json:"mark"`
}

// Fingerprint computes a stable cache key for a (builtin map, labeled
// term) pair. It hashes the term's shape and attributes rather than a Go
// pointer identity, so structurally identical programs share one entry.
func Fingerprint(bmap label.BMap, labeled term.Term) string {
	h := sha256.New()
	fmt.Fprintf(h, "bmap:%d\n", len(bmap))
	names := make([]string, 0, len(bmap))
	for name := range bmap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(h, "%s=%d\n", name, bmap[name])
	}
	writeShape(h, labeled)
	return hex.EncodeToString(h.Sum(nil))
}

func writeShape(h interface{ Write([]byte) (int, error) }, t term.Term) {
	attr := t.GetAttr()
	fmt.Fprintf(h, "(L%d V%d ", attr.Label, attr.VarLabel)
	switch n := t.(type) {
	case *term.Var:
		fmt.Fprintf(h, "Var %s)", n.Name)
	case *term.Lam:
		fmt.Fprintf(h, "Lam %s ", n.ParamName)
		writeShape(h, n.Body)
		fmt.Fprint(h, ")")
	case *term.App:
		fmt.Fprint(h, "App ")
		writeShape(h, n.Fn)
		writeShape(h, n.Arg)
		fmt.Fprint(h, ")")
	case *term.Const:
		fmt.Fprintf(h, "Const %s)", formatConstant(n.C))
	case *term.IfExp:
		fmt.Fprint(h, "If)")
	case *term.Fix:
		fmt.Fprint(h, "Fix)")
	case *term.Nop:
		fmt.Fprint(h, "Nop)")
	case *term.Rec:
		fmt.Fprint(h, "Rec ")
		keys := make([]string, 0, len(n.Fields))
		for k := range n.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(h, "%s=", k)
			writeShape(h, n.Fields[k])
		}
		fmt.Fprint(h, ")")
	case *term.Proj:
		fmt.Fprintf(h, "Proj %s ", n.Field)
		writeShape(h, n.Term)
		fmt.Fprint(h, ")")
	case *term.Utest:
		fmt.Fprint(h, "Utest ")
		writeShape(h, n.Lhs)
		writeShape(h, n.Rhs)
		writeShape(h, n.Next)
		fmt.Fprint(h, ")")
	default:
		fmt.Fprintf(h, "%T)", t)
	}
}

// formatConstant renders a term.Constant deterministically for hashing,
// avoiding the pointer-address noise fmt's default %v would print for the
// *Atom case (which would make structurally identical programs hash
// differently across runs).
func formatConstant(c term.Constant) string {
	switch v := c.(type) {
	case *term.Atom:
		return fmt.Sprintf("atom:%s:%d", v.ID, len(v.ArgsRev))
	case term.Int:
		return fmt.Sprintf("int:%d", v.Value)
	case term.Float:
		return fmt.Sprintf("float:%v", v.Value)
	case term.Bool:
		return fmt.Sprintf("bool:%v", v.Value)
	case term.Str:
		return fmt.Sprintf("str:%q", v.Value)
	default:
		return fmt.Sprintf("const:%T", c)
	}
}

// Get looks up a previously-stored analysis result for fingerprint,
// rebuilding cfa.Data against in (the caller's live Interner).
func (c *Cache) Get(fingerprint string, in *cfa.Interner) (cfa.Data, cfa.Mark, bool, error) {
	var blob, markBlob []byte
	var nLabels int
	row := c.db.QueryRow(`SELECT n_labels, data, mark FROM analysis_cache WHERE fingerprint = ?`, fingerprint)
	if err := row.Scan(&nLabels, &blob, &markBlob); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("anacache: get: %w", err)
	}

	var e entry
	if err := json.Unmarshal(blob, &e); err != nil {
		return nil, nil, false, fmt.Errorf("anacache: decoding entry: %w", err)
	}
	var mark cfa.Mark
	if err := json.Unmarshal(markBlob, &mark); err != nil {
		return nil, nil, false, fmt.Errorf("anacache: decoding mark: %w", err)
	}

	data := cfa.NewData(e.NLabels, in)
	for l, ids := range e.Sets {
		for _, id := range ids {
			if id < 0 || id >= in.Len() {
				return nil, nil, false, fmt.Errorf("anacache: fingerprint %s references unknown interned value %d", fingerprint, id)
			}
			data[l].Add(in.Lookup(uint(id)))
		}
	}
	return data, mark, true, nil
}

// Put stores data/mark under fingerprint, replacing any prior entry. in
// must be the same Interner that produced data, so Put can recover each
// member's dense index.
func (c *Cache) Put(fingerprint string, data cfa.Data, mark cfa.Mark, in *cfa.Interner) error {
	e := entry{NLabels: len(data), Mark: mark}
	e.Sets = make([][]int, len(data))
	for l, set := range data {
		var ids []int
		set.Each(func(av cfa.AbstractValue) { ids = append(ids, int(in.Intern(av))) })
		e.Sets[l] = ids
	}

	blob, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("anacache: encoding entry: %w", err)
	}
	markBlob, err := json.Marshal(mark)
	if err != nil {
		return fmt.Errorf("anacache: encoding mark: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO analysis_cache (fingerprint, n_labels, data, mark) VALUES (?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET n_labels = excluded.n_labels, data = excluded.data, mark = excluded.mark`,
		fingerprint, e.NLabels, blob, markBlob,
	)
	if err != nil {
		return fmt.Errorf("anacache: put: %w", err)
	}
	return nil
}
