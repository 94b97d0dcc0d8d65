package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/tx"
	"github.com/nftstore/nftstored/internal/core/types"
)

// Service is the atomic transition host around the engine: it
// serializes conflicting transitions, commits each one's effects to
// storage as a unit or not at all, supplies the trusted timestamp, and
// publishes events only after commit.
type Service struct {
	mu        sync.Mutex
	ledger    *Ledger
	engine    *tx.Engine
	publisher *EventPublisher
	archive   *SaleArchive // optional
}

// Options configures a Service.
type Options struct {
	// Now overrides the transition timestamp source (tests).
	Now func() int64

	// Archive, when set, receives every committed sale.
	Archive *SaleArchive
}

// New creates a service over the given ledger.
func New(ledger *Ledger, opts Options) *Service {
	return &Service{
		ledger:    ledger,
		engine:    tx.NewEngine(ledger, tx.EngineConfig{Now: opts.Now}),
		publisher: NewEventPublisher(),
		archive:   opts.Archive,
	}
}

// Publisher returns the service's event publisher.
func (s *Service) Publisher() *EventPublisher {
	return s.publisher
}

// Submit runs one transition to completion. Conflicting transitions
// are serialized here, so each Apply re-validates its preconditions
// against the state left by the previous one.
func (s *Service) Submit(ctx context.Context, txn tx.Transaction) (tx.ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.engine.Apply(txn)
	if !res.Applied {
		s.ledger.Discard()
		return res, nil
	}

	if err := s.ledger.Flush(ctx); err != nil {
		s.ledger.Discard()
		return tx.ApplyResult{Result: tx.TefINTERNAL, Message: err.Error()}, err
	}

	for _, ev := range res.Events {
		if sold, ok := ev.(tx.SoldEvent); ok && s.archive != nil {
			if err := s.archive.Index(sold); err != nil {
				// Ledger state is committed; the archive can be
				// rebuilt from sold records, so log and continue.
				log.Printf("sale archive: %v", err)
			}
		}
	}
	s.publisher.Publish(res.Events)

	return res, nil
}

// read returns raw entry data at a keylet via the base view.
func (s *Service) read(k keylet.Keylet) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Read(k)
}

// StoreInfo returns the store derived from a trimmed name and bump.
func (s *Service) StoreInfo(name string, bump uint8) (*entry.Store, error) {
	data, err := s.read(keylet.Store(entry.TrimName([]byte(name)), bump))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return entry.ParseStore(data)
}

// RecordInfo returns the listing record for an asset.
func (s *Service) RecordInfo(assetID types.Address, bump uint8) (*entry.Record, error) {
	data, err := s.read(keylet.Record(assetID, bump))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return entry.ParseRecord(data)
}

// SoldRecordInfo returns one sold record from ledger state.
func (s *Service) SoldRecordInfo(assetID types.Address, index uint32) (*entry.SoldRecord, error) {
	data, err := s.read(keylet.Sold(assetID, index))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return entry.ParseSoldRecord(data)
}

// AccountBalance returns the native balance at an address.
func (s *Service) AccountBalance(addr types.Address) (uint64, error) {
	data, err := s.read(keylet.Account(addr))
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, nil
	}
	acct, err := entry.ParseAccountRoot(data)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// Archive returns the sale archive, or nil.
func (s *Service) Archive() *SaleArchive {
	return s.archive
}

// The Provision methods model the host environment's storage
// allocation: mints, user custody accounts and funded balances exist
// before the settlement core ever sees them. They write directly to
// the base view and are used by the admin surface and tests.

// ProvisionMint seeds an asset mint.
func (s *Service) ProvisionMint(assetID types.Address, supply uint64, decimals uint8) error {
	m := &entry.Mint{Supply: supply, Decimals: decimals}
	data, err := m.Serialize()
	if err != nil {
		return err
	}
	return s.provision(keylet.Mint(assetID), data)
}

// ProvisionTokenAccount seeds a user custody account for an asset.
func (s *Service) ProvisionTokenAccount(owner, assetID types.Address, amount uint64) error {
	t := &entry.TokenAccount{Mint: assetID, Owner: owner, Amount: amount}
	data, err := t.Serialize()
	if err != nil {
		return err
	}
	return s.provision(keylet.UserToken(owner, assetID), data)
}

// ProvisionAccount seeds a funded native balance.
func (s *Service) ProvisionAccount(addr types.Address, balance uint64) error {
	a := &entry.AccountRoot{Balance: balance}
	data, err := a.Serialize()
	if err != nil {
		return err
	}
	return s.provision(keylet.Account(addr), data)
}

func (s *Service) provision(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.ledger.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		s.ledger.Discard()
		return fmt.Errorf("entry already exists at %s", k.Key)
	}
	if err := s.ledger.Insert(k, data); err != nil {
		s.ledger.Discard()
		return err
	}
	return s.ledger.Flush(context.Background())
}
