// Package xlsx implements the layered order store over two workbooks: a read-only
// reference workbook and an append-only extracted workbook owned by this process.
package xlsx

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/port"
)

var _ port.OrderStore = (*Store)(nil)

// extractedFileMode is the permission of the extracted workbook after each persist.
const extractedFileMode fs.FileMode = 0o644

// Store is the layered order store. It is safe for concurrent use. All mutations of the
// extracted workbook run in one critical section per Store.
type Store struct {
	referencePath string
	extractedPath string

	// mu guards the extracted workbook and the extracted cache entries derived from it.
	mu    sync.RWMutex
	cache *tableCache

	now    func() time.Time
	rename func(oldpath, newpath string) error
}

// extractedDataset is one consistent snapshot of both extracted sheets.
type extractedDataset struct {
	orders  []domain.OrderHeader
	details []domain.OrderDetail
}

// New creates a Store, creating the data directory and an empty extracted workbook
// when they do not exist yet.
func New(cfg *config.StoreConfig) (*Store, error) {
	s := &Store{
		referencePath: cfg.ReferencePath,
		extractedPath: cfg.ExtractedPath,
		cache:         newTableCache(cfg.CacheTTL),
		now:           time.Now,
		rename:        os.Rename,
	}
	if err := s.bootstrap(); err != nil {
		return nil, fmt.Errorf("xlsx.New: %w", err)
	}
	return s, nil
}

func (s *Store) bootstrap() error {
	dir := filepath.Dir(s.extractedPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	_, err := os.Stat(s.extractedPath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking extracted workbook: %w", err)
	}

	log.Printf("xlsx.Store: creating extracted workbook %s", s.extractedPath)
	return s.persist(nil, nil)
}

// ReferencePath returns the location of the reference workbook.
func (s *Store) ReferencePath() string { return s.referencePath }

// ExtractedPath returns the location of the extracted workbook.
func (s *Store) ExtractedPath() string { return s.extractedPath }

// ClearCache drops every cached table snapshot.
func (s *Store) ClearCache() {
	s.cache.clear()
}

// readReferenceSheet reads one sheet of the reference workbook. A missing workbook reads
// as an empty sheet.
func (s *Store) readReferenceSheet(sheet string) (*sheetRows, error) {
	if _, err := os.Stat(s.referencePath); errors.Is(err, fs.ErrNotExist) {
		log.Printf("xlsx.Store: reference workbook %s not found, serving empty %s", s.referencePath, sheet)
		return &sheetRows{name: sheet, cols: map[string]int{}}, nil
	}
	f, err := excelize.OpenFile(s.referencePath)
	if err != nil {
		return nil, fmt.Errorf("opening reference workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	rows, err := readSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	rows.serialDates = true
	return rows, nil
}

// readExtractedFile loads both extracted sheets from disk, bypassing the cache.
func (s *Store) readExtractedFile() (*extractedDataset, error) {
	f, err := excelize.OpenFile(s.extractedPath)
	if err != nil {
		return nil, fmt.Errorf("opening extracted workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	orderRows, err := readSheet(f, SheetExtractedOrders)
	if err != nil {
		return nil, err
	}
	orders, err := decodeOrders(orderRows, domain.SourceExtracted)
	if err != nil {
		return nil, err
	}
	detailRows, err := readSheet(f, SheetExtractedOrderDetails)
	if err != nil {
		return nil, err
	}
	details, err := decodeDetails(detailRows, domain.SourceExtracted)
	if err != nil {
		return nil, err
	}
	return &extractedDataset{orders: orders, details: details}, nil
}

// persist writes the whole extracted dataset to a temporary workbook next to the
// artifact and renames it into place. On failure the previous artifact is untouched.
func (s *Store) persist(orders []domain.OrderHeader, details []domain.OrderDetail) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetExtractedOrders); err != nil {
		return fmt.Errorf("naming orders sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetExtractedOrderDetails); err != nil {
		return fmt.Errorf("adding details sheet: %w", err)
	}

	orderRows := make([][]interface{}, len(orders))
	for i := range orders {
		orderRows[i] = encodeOrder(&orders[i])
	}
	if err := writeSheet(f, SheetExtractedOrders, ExtractedOrderColumns, orderRows); err != nil {
		return err
	}
	detailRows := make([][]interface{}, len(details))
	for i := range details {
		detailRows[i] = encodeDetail(&details[i])
	}
	if err := writeSheet(f, SheetExtractedOrderDetails, ExtractedDetailColumns, detailRows); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.extractedPath), ".extracted-*.xlsx")
	if err != nil {
		return fmt.Errorf("creating temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(extractedFileMode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting temp workbook mode: %w", err)
	}
	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp workbook: %w", err)
	}
	if err := s.rename(tmpName, s.extractedPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing extracted workbook: %w", err)
	}
	return nil
}

// loadReference returns a reference table snapshot through the cache.
func loadReference[T any](s *Store, table string, decode func(*sheetRows) ([]T, error)) ([]T, error) {
	key := cacheKey{partition: domain.PartitionReference, table: table}
	v, err := s.cache.getOrLoad(key, func() (any, error) {
		log.Printf("xlsx.Store: loading reference sheet %s", referenceSheets[table])
		rows, err := s.readReferenceSheet(referenceSheets[table])
		if err != nil {
			return nil, err
		}
		out, err := decode(rows)
		if err != nil {
			return nil, err
		}
		s.cache.put(key, out)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}

// loadExtracted returns the extracted dataset through the cache. Cold loads hold the read
// lock so they never overwrite a snapshot stored by a concurrent append.
func (s *Store) loadExtracted(table string) (any, error) {
	key := cacheKey{partition: domain.PartitionExtracted, table: table}
	return s.cache.getOrLoad(key, func() (any, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		log.Printf("xlsx.Store: loading extracted sheet %s", extractedSheets[table])
		ds, err := s.readExtractedFile()
		if err != nil {
			return nil, err
		}
		s.storeExtracted(ds)
		if table == tableOrders {
			return ds.orders, nil
		}
		return ds.details, nil
	})
}

func (s *Store) storeExtracted(ds *extractedDataset) {
	s.cache.put(cacheKey{partition: domain.PartitionExtracted, table: tableOrders}, ds.orders)
	s.cache.put(cacheKey{partition: domain.PartitionExtracted, table: tableOrderDetails}, ds.details)
}

func (s *Store) orders(p domain.Partition) ([]domain.OrderHeader, error) {
	if p == domain.PartitionReference {
		return loadReference(s, tableOrders, func(r *sheetRows) ([]domain.OrderHeader, error) {
			return decodeOrders(r, domain.SourceReference)
		})
	}
	v, err := s.loadExtracted(tableOrders)
	if err != nil {
		return nil, err
	}
	return v.([]domain.OrderHeader), nil
}

func (s *Store) details(p domain.Partition) ([]domain.OrderDetail, error) {
	if p == domain.PartitionReference {
		return loadReference(s, tableOrderDetails, func(r *sheetRows) ([]domain.OrderDetail, error) {
			return decodeDetails(r, domain.SourceReference)
		})
	}
	v, err := s.loadExtracted(tableOrderDetails)
	if err != nil {
		return nil, err
	}
	return v.([]domain.OrderDetail), nil
}

func (s *Store) products() ([]domain.Product, error) {
	return loadReference(s, tableProducts, decodeProducts)
}

func (s *Store) customers() ([]domain.Customer, error) {
	return loadReference(s, tableCustomers, decodeCustomers)
}

func (s *Store) individualCustomers() ([]domain.IndividualCustomer, error) {
	return loadReference(s, tableIndividualCustomers, decodeIndividualCustomers)
}

func (s *Store) storeCustomers() ([]domain.StoreCustomer, error) {
	return loadReference(s, tableStoreCustomers, decodeStoreCustomers)
}
