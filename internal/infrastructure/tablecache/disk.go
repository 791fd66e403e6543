package tablecache

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/platform/jsonfile"
)

// DiskStore keeps one JSON file per key under root:
//
//	<root>/<season>/<phase>/<period>/<team>.json  event tables
//	<root>/<season>/<phase>/<period>.json         period tables
//	<root>/<season>/<phase>.json                  season tables
//
// A file that exists is a hit.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Path(key table.Key) string {
	season := strconv.Itoa(key.Season)
	phase := string(key.Phase)
	period := strconv.Itoa(key.Period)

	switch key.Level() {
	case table.LevelEvent:
		return filepath.Join(s.root, season, phase, period, key.Team+".json")
	case table.LevelPeriod:
		return filepath.Join(s.root, season, phase, period+".json")
	default:
		return filepath.Join(s.root, season, phase+".json")
	}
}

func (s *DiskStore) Get(ctx context.Context, key table.Key) (table.Table, bool, error) {
	if err := ctx.Err(); err != nil {
		return table.Table{}, false, err
	}

	var out table.Table
	found, err := jsonfile.Read(s.Path(key), &out)
	if err != nil || !found {
		return table.Table{}, false, err
	}
	out.Normalize()
	return out, true, nil
}

func (s *DiskStore) Put(ctx context.Context, key table.Key, value table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value.Rows == nil {
		value.Rows = []table.Row{}
	}
	if value.Columns == nil {
		value.Columns = []string{}
	}
	return jsonfile.Write(s.Path(key), value)
}
