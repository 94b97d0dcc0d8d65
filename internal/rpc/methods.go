package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/tx"
	"github.com/nftstore/nftstored/internal/core/types"
)

func (s *Server) registerAllMethods() {
	s.register("submit", s.handleSubmit)
	s.register("store_info", s.handleStoreInfo)
	s.register("record_info", s.handleRecordInfo)
	s.register("sold_record", s.handleSoldRecord)
	s.register("sold_records", s.handleSoldRecords)
	s.register("account_info", s.handleAccountInfo)
	s.register("server_info", s.handleServerInfo)

	// Admin surface: host-side storage allocation.
	s.register("provision_mint", s.handleProvisionMint)
	s.register("provision_token_account", s.handleProvisionTokenAccount)
	s.register("provision_account", s.handleProvisionAccount)
}

// handleSubmit applies one transition and returns its result code.
func (s *Server) handleSubmit(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Tx json.RawMessage `json:"tx_json"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("parse submit params: %w", err)
	}

	txn, err := tx.FromJSON(req.Tx)
	if err != nil {
		return nil, fmt.Errorf("parse transaction: %w", err)
	}

	res, err := s.svc.Submit(ctx, txn)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"engine_result":         res.Result.String(),
		"engine_result_code":    int(res.Result),
		"engine_result_message": res.Message,
		"applied":               res.Applied,
	}, nil
}

func (s *Server) handleStoreInfo(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Name string `json:"name"`
		Bump uint8  `json:"bump"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, err
	}

	store, err := s.svc.StoreInfo(req.Name, req.Bump)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("store not found: %q", req.Name)
	}
	return map[string]any{
		"name":   string(store.TrimmedName()),
		"bump":   store.Bump,
		"frozen": store.Frozen,
		"owner":  store.Owner.String(),
	}, nil
}

func (s *Server) handleRecordInfo(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		AssetID types.Address `json:"asset_id"`
		Bump    uint8         `json:"bump"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, err
	}

	record, err := s.svc.RecordInfo(req.AssetID, req.Bump)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("record not found: %s", req.AssetID)
	}
	return map[string]any{
		"asset_id":      record.AssetID.String(),
		"initializer":   record.Initializer.String(),
		"seller":        record.Seller.String(),
		"on_sale":       record.OnSale,
		"price":         record.Price,
		"rate":          record.Rate,
		"current_index": record.CurrentIndex,
		"volume":        record.VolumeAmount().Dec(),
	}, nil
}

func (s *Server) handleSoldRecord(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		AssetID types.Address `json:"asset_id"`
		Index   uint32        `json:"index"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, err
	}

	sold, err := s.svc.SoldRecordInfo(req.AssetID, req.Index)
	if err != nil {
		return nil, err
	}
	if sold == nil {
		return nil, fmt.Errorf("sold record not found: %s/%d", req.AssetID, req.Index)
	}
	return soldRecordJSON(sold), nil
}

// handleSoldRecords serves sale history from the sqlite archive.
func (s *Server) handleSoldRecords(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		AssetID   types.Address `json:"asset_id"`
		FromIndex uint32        `json:"from_index"`
		Limit     int           `json:"limit"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, err
	}

	archive := s.svc.Archive()
	if archive == nil {
		return nil, fmt.Errorf("sale archive not configured")
	}
	sales, err := archive.ByAsset(req.AssetID, req.FromIndex, req.Limit)
	if err != nil {
		return nil, err
	}
	return map[string]any{"sales": sales}, nil
}

func (s *Server) handleAccountInfo(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Account types.Address `json:"account"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, err
	}

	balance, err := s.svc.AccountBalance(req.Account)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"account": req.Account.String(),
		"balance": balance,
	}, nil
}

func (s *Server) handleServerInfo(ctx context.Context, params json.RawMessage) (any, error) {
	return map[string]any{
		"server_state": "full",
		"minimum_fee":  tx.MinimumFee,
		"max_rate":     tx.MaxRate,
	}, nil
}

func (s *Server) handleProvisionMint(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		AssetID  types.Address `json:"asset_id"`
		Supply   uint64        `json:"supply"`
		Decimals uint8         `json:"decimals"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, err
	}
	if err := s.svc.ProvisionMint(req.AssetID, req.Supply, req.Decimals); err != nil {
		return nil, err
	}
	return map[string]any{"status": "success"}, nil
}

func (s *Server) handleProvisionTokenAccount(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Owner   types.Address `json:"owner"`
		AssetID types.Address `json:"asset_id"`
		Amount  uint64        `json:"amount"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, err
	}
	if err := s.svc.ProvisionTokenAccount(req.Owner, req.AssetID, req.Amount); err != nil {
		return nil, err
	}
	return map[string]any{"status": "success"}, nil
}

func (s *Server) handleProvisionAccount(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Account types.Address `json:"account"`
		Balance uint64        `json:"balance"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, err
	}
	if err := s.svc.ProvisionAccount(req.Account, req.Balance); err != nil {
		return nil, err
	}
	return map[string]any{"status": "success"}, nil
}

func soldRecordJSON(sold *entry.SoldRecord) map[string]any {
	return map[string]any{
		"asset_id":   sold.AssetID.String(),
		"index":      sold.Index,
		"price":      sold.Price,
		"seller":     sold.Seller.String(),
		"customer":   sold.Customer.String(),
		"rate":       sold.Rate,
		"created_at": sold.CreatedAt,
	}
}
