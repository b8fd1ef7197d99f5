package host

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/wippyai/ascabi/errors"
	"github.com/wippyai/ascabi/internal/validate"
)

const dataSourceTable = "data_source"

var dataSourceSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		dataSourceTable: {
			Name: dataSourceTable,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.UUIDFieldIndex{Field: "ID"},
				},
				"name": {
					Name:    "name",
					Indexer: &memdb.StringFieldIndex{Field: "Name"},
				},
			},
		},
	},
}

// DataSource is a template instance registered by a guest.
type DataSource struct {
	ID     string
	Name   string `validate:"required"`
	Params []string
	Seq    uint64
}

// DataSources records the data sources guests create. It is safe for
// concurrent use.
type DataSources struct {
	db  *memdb.MemDB
	seq atomic.Uint64
}

// NewDataSources creates an empty registry.
func NewDataSources() (*DataSources, error) {
	db, err := memdb.NewMemDB(dataSourceSchema)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "data source schema")
	}
	return &DataSources{db: db}, nil
}

// Create registers a new instance of the named template.
func (d *DataSources) Create(_ context.Context, name string, params []string) (DataSource, error) {
	ds := DataSource{
		ID:     uuid.NewString(),
		Name:   name,
		Params: append([]string(nil), params...),
		Seq:    d.seq.Add(1),
	}
	if err := validate.Struct(errors.PhaseHost, ds); err != nil {
		return DataSource{}, err
	}

	txn := d.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(dataSourceTable, &ds); err != nil {
		return DataSource{}, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "insert data source")
	}
	txn.Commit()
	return ds, nil
}

// Get returns the data source with the given id.
func (d *DataSources) Get(id string) (DataSource, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(dataSourceTable, "id", id)
	if err != nil {
		return DataSource{}, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "lookup data source")
	}
	if raw == nil {
		return DataSource{}, errors.NotFound(errors.PhaseHost, "data source", id)
	}
	return *raw.(*DataSource), nil
}

// ByName returns every instance of a template in creation order.
func (d *DataSources) ByName(name string) ([]DataSource, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(dataSourceTable, "name", name)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "lookup data sources")
	}
	return collect(it), nil
}

// All returns every data source in creation order.
func (d *DataSources) All() ([]DataSource, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(dataSourceTable, "id")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "list data sources")
	}
	return collect(it), nil
}

// collect drains it in creation order.
func collect(it memdb.ResultIterator) []DataSource {
	var out []DataSource
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, *obj.(*DataSource))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}
