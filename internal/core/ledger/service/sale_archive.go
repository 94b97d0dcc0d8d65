package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/nftstore/nftstored/internal/core/tx"
	"github.com/nftstore/nftstored/internal/core/types"

	_ "modernc.org/sqlite"
)

// ErrSaleNotFound is returned when the archive has no row for the
// requested sale.
var ErrSaleNotFound = errors.New("sale not found")

// SaleArchive indexes committed sales in sqlite so history can be
// queried without walking ledger state. The ledger's sold records
// remain the source of truth; the archive is rebuilt from them if
// lost.
type SaleArchive struct {
	db *sql.DB
}

const saleArchiveSchema = `
CREATE TABLE IF NOT EXISTS sold_records (
	asset      TEXT    NOT NULL,
	idx        INTEGER NOT NULL,
	price      INTEGER NOT NULL,
	seller     TEXT    NOT NULL,
	customer   TEXT    NOT NULL,
	rate       INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (asset, idx)
);
CREATE INDEX IF NOT EXISTS idx_sold_records_seller ON sold_records (seller);
`

// OpenSaleArchive opens (or creates) the archive database at path.
// Use ":memory:" for an ephemeral archive.
func OpenSaleArchive(path string) (*SaleArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sale archive: %w", err)
	}
	if _, err := db.Exec(saleArchiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sale archive schema: %w", err)
	}
	return &SaleArchive{db: db}, nil
}

// Index records one committed sale. Inserting the same (asset, index)
// twice fails; the ledger guarantees it cannot happen.
func (a *SaleArchive) Index(ev tx.SoldEvent) error {
	_, err := a.db.Exec(
		`INSERT INTO sold_records (asset, idx, price, seller, customer, rate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.AssetID.String(), ev.Index, ev.Price,
		ev.Seller.String(), ev.Customer.String(), ev.Rate, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("index sale %s/%d: %w", ev.AssetID, ev.Index, err)
	}
	return nil
}

// Sale is one archived sale row.
type Sale struct {
	AssetID   types.Address `json:"asset_id"`
	Index     uint32        `json:"index"`
	Price     uint64        `json:"price"`
	Seller    types.Address `json:"seller"`
	Customer  types.Address `json:"customer"`
	Rate      uint16        `json:"rate"`
	CreatedAt int64         `json:"created_at"`
}

// Get returns one archived sale.
func (a *SaleArchive) Get(assetID types.Address, index uint32) (*Sale, error) {
	row := a.db.QueryRow(
		`SELECT asset, idx, price, seller, customer, rate, created_at
		 FROM sold_records WHERE asset = ? AND idx = ?`,
		assetID.String(), index,
	)
	sale, err := scanSale(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSaleNotFound
	}
	return sale, err
}

// ByAsset returns up to limit archived sales of an asset, ascending by
// index, starting at fromIndex.
func (a *SaleArchive) ByAsset(assetID types.Address, fromIndex uint32, limit int) ([]Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := a.db.Query(
		`SELECT asset, idx, price, seller, customer, rate, created_at
		 FROM sold_records WHERE asset = ? AND idx >= ?
		 ORDER BY idx ASC LIMIT ?`,
		assetID.String(), fromIndex, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		sale, err := scanSale(rows.Scan)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}

func scanSale(scan func(dest ...any) error) (*Sale, error) {
	var (
		sale             Sale
		asset            string
		seller, customer string
	)
	if err := scan(&asset, &sale.Index, &sale.Price, &seller, &customer, &sale.Rate, &sale.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if sale.AssetID, err = types.ParseAddress(asset); err != nil {
		return nil, err
	}
	if sale.Seller, err = types.ParseAddress(seller); err != nil {
		return nil, err
	}
	if sale.Customer, err = types.ParseAddress(customer); err != nil {
		return nil, err
	}
	return &sale, nil
}

// Close closes the archive database.
func (a *SaleArchive) Close() error {
	return a.db.Close()
}
