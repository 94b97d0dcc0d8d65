package tx

import (
	"fmt"
	"testing"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
	"github.com/nftstore/nftstored/internal/core/types"
)

const testTimestamp int64 = 1_700_000_000

// memoryView is an in-memory LedgerView used as the engine's base view
// in tests.
type memoryView struct {
	entries map[types.Address][]byte
}

func newMemoryView() *memoryView {
	return &memoryView{entries: make(map[types.Address][]byte)}
}

func (v *memoryView) Read(k keylet.Keylet) ([]byte, error) {
	return v.entries[k.Key], nil
}

func (v *memoryView) Exists(k keylet.Keylet) (bool, error) {
	_, ok := v.entries[k.Key]
	return ok, nil
}

func (v *memoryView) Insert(k keylet.Keylet, data []byte) error {
	if _, ok := v.entries[k.Key]; ok {
		return fmt.Errorf("entry already exists at %s", k.Key)
	}
	v.entries[k.Key] = data
	return nil
}

func (v *memoryView) Update(k keylet.Keylet, data []byte) error {
	if _, ok := v.entries[k.Key]; !ok {
		return fmt.Errorf("entry not found: %s", k.Key)
	}
	v.entries[k.Key] = data
	return nil
}

func (v *memoryView) Erase(k keylet.Keylet) error {
	if _, ok := v.entries[k.Key]; !ok {
		return fmt.Errorf("entry not found: %s", k.Key)
	}
	delete(v.entries, k.Key)
	return nil
}

type testEnv struct {
	t      *testing.T
	view   *memoryView
	engine *Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	view := newMemoryView()
	engine := NewEngine(view, EngineConfig{Now: func() int64 { return testTimestamp }})
	return &testEnv{t: t, view: view, engine: engine}
}

func (e *testEnv) seedMint(assetID types.Address, supply uint64, decimals uint8) {
	e.t.Helper()
	m := &entry.Mint{Supply: supply, Decimals: decimals}
	data, err := m.Serialize()
	if err != nil {
		e.t.Fatal(err)
	}
	if err := e.view.Insert(keylet.Mint(assetID), data); err != nil {
		e.t.Fatal(err)
	}
}

func (e *testEnv) seedUserToken(owner, assetID types.Address, amount uint64) {
	e.t.Helper()
	acct := &entry.TokenAccount{Mint: assetID, Owner: owner, Amount: amount}
	data, err := acct.Serialize()
	if err != nil {
		e.t.Fatal(err)
	}
	if err := e.view.Insert(keylet.UserToken(owner, assetID), data); err != nil {
		e.t.Fatal(err)
	}
}

func (e *testEnv) fund(addr types.Address, balance uint64) {
	e.t.Helper()
	acct := &entry.AccountRoot{Balance: balance}
	data, err := acct.Serialize()
	if err != nil {
		e.t.Fatal(err)
	}
	if err := e.view.Insert(keylet.Account(addr), data); err != nil {
		e.t.Fatal(err)
	}
}

func (e *testEnv) balance(addr types.Address) uint64 {
	e.t.Helper()
	data := e.view.entries[keylet.Account(addr).Key]
	if data == nil {
		return 0
	}
	acct, err := entry.ParseAccountRoot(data)
	if err != nil {
		e.t.Fatal(err)
	}
	return acct.Balance
}

func (e *testEnv) tokenAmount(k keylet.Keylet) uint64 {
	e.t.Helper()
	data := e.view.entries[k.Key]
	if data == nil {
		e.t.Fatalf("token account missing at %s", k.Key)
	}
	acct, err := entry.ParseTokenAccount(data)
	if err != nil {
		e.t.Fatal(err)
	}
	return acct.Amount
}

func (e *testEnv) readStore(name string, bump uint8) *entry.Store {
	e.t.Helper()
	data := e.view.entries[keylet.Store(entry.TrimName([]byte(name)), bump).Key]
	if data == nil {
		e.t.Fatalf("store %q missing", name)
	}
	store, err := entry.ParseStore(data)
	if err != nil {
		e.t.Fatal(err)
	}
	return store
}

func (e *testEnv) readRecord(assetID types.Address, bump uint8) *entry.Record {
	e.t.Helper()
	data := e.view.entries[keylet.Record(assetID, bump).Key]
	if data == nil {
		e.t.Fatal("record missing")
	}
	record, err := entry.ParseRecord(data)
	if err != nil {
		e.t.Fatal(err)
	}
	return record
}

func (e *testEnv) mustApply(txn Transaction) ApplyResult {
	e.t.Helper()
	res := e.engine.Apply(txn)
	if res.Result != TesSUCCESS {
		e.t.Fatalf("%s failed: %v (%s)", txn.TxType(), res.Result, res.Message)
	}
	return res
}

func (e *testEnv) applyExpect(txn Transaction, want Result) {
	e.t.Helper()
	res := e.engine.Apply(txn)
	if res.Result != want {
		e.t.Fatalf("%s = %v, want %v (%s)", txn.TxType(), res.Result, want, res.Message)
	}
	if res.Applied {
		e.t.Fatalf("%s applied on %v", txn.TxType(), want)
	}
}

func testAddr(b byte) types.Address {
	var a types.Address
	a[0] = b
	return a
}

var (
	owner  = testAddr(0x01)
	seller = testAddr(0x02)
	buyer  = testAddr(0x03)
	asset  = testAddr(0xA0)
)

const (
	storeName = "shop"
	storeBump = uint8(253)
)

var recordBumps = entry.RecordBumps{TokenAccount: 252, Record: 251}

// setupListing provisions a store, a unique asset, its record and a
// funded seller holding the asset unit.
func setupListing(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.seedMint(asset, 1, 0)
	env.seedUserToken(seller, asset, 1)
	env.seedUserToken(buyer, asset, 0)
	env.mustApply(NewInitializeStore(owner, storeName, storeBump))
	env.mustApply(NewInitializeRecord(seller, asset, storeName, storeBump, recordBumps))
	return env
}

func TestInitializeStore(t *testing.T) {
	env := newTestEnv(t)
	env.mustApply(NewInitializeStore(owner, "shop", 7))

	store := env.readStore("shop", 7)
	if string(store.Name[:]) != "shop      " {
		t.Fatalf("stored name %q, want padded", store.Name)
	}
	if store.Bump != 7 || store.Owner != owner || store.Frozen {
		t.Fatalf("unexpected store: %+v", store)
	}

	env.applyExpect(NewInitializeStore(owner, "shop", 7), TecDUPLICATE)

	// A different bump is a different store.
	env.mustApply(NewInitializeStore(owner, "shop", 8))
}

func TestInitializeStoreValidation(t *testing.T) {
	tests := []struct {
		name string
		txn  Transaction
		want Result
	}{
		{"empty name", NewInitializeStore(owner, "", 7), TemBAD_NAME},
		{"whitespace name", NewInitializeStore(owner, "   ", 7), TemBAD_NAME},
		{"name too long", NewInitializeStore(owner, "01234567890", 7), TemBAD_NAME},
		{"zero account", NewInitializeStore(types.ZeroAddress, "shop", 7), TemINVALID},
	}
	env := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.applyExpect(tt.txn, tt.want)
		})
	}
}

func TestFreezeThaw(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 1_000_000_000)

	env.applyExpect(NewFreezeStore(seller, storeName, storeBump), TecNO_PERMISSION)

	env.mustApply(NewFreezeStore(owner, storeName, storeBump))
	if !env.readStore(storeName, storeBump).Frozen {
		t.Fatal("store not frozen")
	}
	env.applyExpect(NewFreezeStore(owner, storeName, storeBump), TecFROZEN)

	// Frozen stores take no new listings and no new records.
	env.applyExpect(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 1_000_000_000, 250),
		TecFROZEN)
	env.applyExpect(
		NewInitializeRecord(seller, testAddr(0xA1), storeName, storeBump, recordBumps),
		TecFROZEN)

	env.applyExpect(NewThawStore(seller, storeName, storeBump), TecNO_PERMISSION)
	env.mustApply(NewThawStore(owner, storeName, storeBump))
	if env.readStore(storeName, storeBump).Frozen {
		t.Fatal("store still frozen")
	}
	env.applyExpect(NewThawStore(owner, storeName, storeBump), TecNOT_FROZEN)

	env.mustApply(NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 1_000_000_000, 250))
}

func TestFreezeDoesNotBlockSettlement(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 1_000_000_000)
	env.fund(buyer, 3_000_000_000)

	env.mustApply(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 2_000_000_000, 500))
	env.mustApply(NewFreezeStore(owner, storeName, storeBump))

	// Freezing gates new listings only; the in-flight sale settles.
	env.mustApply(NewBuyAsset(buyer, asset, storeName, storeBump, recordBumps, seller, owner))

	// Same for redeeming a listing made before the freeze.
	env.mustApply(NewThawStore(owner, storeName, storeBump))
	env.mustApply(
		NewSellAsset(buyer, asset, storeName, storeBump, recordBumps, 1_000_000_000, 250))
	env.mustApply(NewFreezeStore(owner, storeName, storeBump))
	env.mustApply(NewRedeemAsset(buyer, asset, storeName, storeBump, recordBumps))
}

func TestInitializeRecord(t *testing.T) {
	env := newTestEnv(t)
	env.mustApply(NewInitializeStore(owner, storeName, storeBump))

	// Missing mint.
	env.applyExpect(
		NewInitializeRecord(seller, asset, storeName, storeBump, recordBumps),
		TecNO_ENTRY)

	// Divisible or multi-unit mints are not unique assets.
	fungible := testAddr(0xB0)
	env.seedMint(fungible, 100, 6)
	env.applyExpect(
		NewInitializeRecord(seller, fungible, storeName, storeBump, recordBumps),
		TecWRONG_ASSET)

	env.seedMint(asset, 1, 0)
	env.mustApply(NewInitializeRecord(seller, asset, storeName, storeBump, recordBumps))

	record := env.readRecord(asset, recordBumps.Record)
	if record.Initializer != seller || record.Bumps != recordBumps || record.OnSale {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.CurrentIndex != 0 {
		t.Fatalf("fresh record index = %d", record.CurrentIndex)
	}

	// Escrow custody is owned by the store's derived address.
	escrowK := keylet.RecordToken(asset, recordBumps.TokenAccount)
	escrowData := env.view.entries[escrowK.Key]
	if escrowData == nil {
		t.Fatal("escrow account not created")
	}
	escrow, err := entry.ParseTokenAccount(escrowData)
	if err != nil {
		t.Fatal(err)
	}
	storeK := keylet.Store([]byte(storeName), storeBump)
	if escrow.Owner != storeK.Key || escrow.Mint != asset || escrow.Amount != 0 {
		t.Fatalf("unexpected escrow: %+v", escrow)
	}

	env.applyExpect(
		NewInitializeRecord(seller, asset, storeName, storeBump, recordBumps),
		TecDUPLICATE)
}

func TestSellListsAsset(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 1_000_000_000)

	res := env.mustApply(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 2_000_000_000, 500))

	if len(res.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(res.Events))
	}
	ev, ok := res.Events[0].(ListedEvent)
	if !ok {
		t.Fatalf("unexpected event %T", res.Events[0])
	}
	if ev.Seller != seller || ev.AssetID != asset || ev.Price != 2_000_000_000 || ev.Rate != 500 {
		t.Fatalf("unexpected event: %+v", ev)
	}

	record := env.readRecord(asset, recordBumps.Record)
	if !record.OnSale || record.Seller != seller || record.Price != 2_000_000_000 || record.Rate != 500 {
		t.Fatalf("unexpected record: %+v", record)
	}

	// The asset unit moved into escrow.
	if got := env.tokenAmount(keylet.UserToken(seller, asset)); got != 0 {
		t.Fatalf("seller still holds %d units", got)
	}
	if got := env.tokenAmount(keylet.RecordToken(asset, recordBumps.TokenAccount)); got != 1 {
		t.Fatalf("escrow holds %d units", got)
	}

	// The listing fee (2e9 * 500 / 10000 = 1e8) sits on the record.
	recordK := keylet.Record(asset, recordBumps.Record)
	if got := env.balance(seller); got != 900_000_000 {
		t.Fatalf("seller balance = %d", got)
	}
	if got := env.balance(recordK.Key); got != 100_000_000 {
		t.Fatalf("record balance = %d", got)
	}
}

func TestSellRejectsZeroRate(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 1_000_000_000)

	env.applyExpect(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 1_000_000_000, 0),
		TemINVALID_RATE)

	// Nothing moved.
	if got := env.tokenAmount(keylet.UserToken(seller, asset)); got != 1 {
		t.Fatalf("seller holds %d units after rejected sell", got)
	}
	if env.readRecord(asset, recordBumps.Record).OnSale {
		t.Fatal("record on sale after rejected sell")
	}
}

func TestSellClampsRate(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 2_000_000_000)

	env.mustApply(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 2_000_000_000, 9_000))

	record := env.readRecord(asset, recordBumps.Record)
	if record.Rate != 5_000 {
		t.Fatalf("stored rate = %d, want clamped 5000", record.Rate)
	}
	// Fee charged at the clamped rate: 2e9 * 5000 / 10000 = 1e9.
	if got := env.balance(seller); got != 1_000_000_000 {
		t.Fatalf("seller balance = %d", got)
	}
}

func TestSellMinimumFee(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 50_000_000)

	// 1000 * 250 / 10000 = 25, below the floor; the floor is charged.
	env.mustApply(NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 1_000, 250))
	if got := env.balance(seller); got != 50_000_000-MinimumFee {
		t.Fatalf("seller balance = %d", got)
	}
}

func TestSellUnfundedLeavesStateUntouched(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 1_000) // cannot cover the fee

	env.applyExpect(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 2_000_000_000, 500),
		TecUNFUNDED)

	// The escrow move was staged before the fee debit failed; none of
	// it reached the base view.
	if got := env.tokenAmount(keylet.UserToken(seller, asset)); got != 1 {
		t.Fatalf("seller holds %d units", got)
	}
	if got := env.tokenAmount(keylet.RecordToken(asset, recordBumps.TokenAccount)); got != 0 {
		t.Fatalf("escrow holds %d units", got)
	}
	if env.readRecord(asset, recordBumps.Record).OnSale {
		t.Fatal("record on sale")
	}
	if got := env.balance(seller); got != 1_000 {
		t.Fatalf("seller balance = %d", got)
	}
}

func TestSellRejections(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 10_000_000_000)
	env.fund(buyer, 10_000_000_000)

	// Wrong bumps derive unoccupied addresses.
	env.applyExpect(
		NewSellAsset(seller, asset, storeName, 99, recordBumps, 1_000_000_000, 250),
		TecNO_ENTRY)
	env.applyExpect(
		NewSellAsset(seller, asset, storeName, storeBump,
			entry.RecordBumps{TokenAccount: 252, Record: 99}, 1_000_000_000, 250),
		TecNO_ENTRY)

	// A caller without the asset unit cannot list it.
	env.applyExpect(
		NewSellAsset(buyer, asset, storeName, storeBump, recordBumps, 1_000_000_000, 250),
		TecUNFUNDED)

	env.mustApply(NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 1_000_000_000, 250))
	env.applyExpect(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 1_000_000_000, 250),
		TecON_SALE)
}

func TestBuyCompletesSale(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 1_000_000_000)
	env.fund(buyer, 3_000_000_000)

	env.mustApply(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 2_000_000_000, 500))

	res := env.mustApply(
		NewBuyAsset(buyer, asset, storeName, storeBump, recordBumps, seller, owner))

	if len(res.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(res.Events))
	}
	ev, ok := res.Events[0].(SoldEvent)
	if !ok {
		t.Fatalf("unexpected event %T", res.Events[0])
	}
	if ev.Index != 0 || ev.Seller != seller || ev.Customer != buyer ||
		ev.Price != 2_000_000_000 || ev.Rate != 500 || ev.CreatedAt != testTimestamp {
		t.Fatalf("unexpected event: %+v", ev)
	}

	// Immutable receipt at index 0.
	soldData := env.view.entries[keylet.Sold(asset, 0).Key]
	if soldData == nil {
		t.Fatal("sold record not created")
	}
	sold, err := entry.ParseSoldRecord(soldData)
	if err != nil {
		t.Fatal(err)
	}
	want := entry.SoldRecord{
		Index: 0, Price: 2_000_000_000, Seller: seller, Customer: buyer,
		Rate: 500, AssetID: asset, CreatedAt: testTimestamp,
	}
	if *sold != want {
		t.Fatalf("sold record = %+v, want %+v", sold, want)
	}

	record := env.readRecord(asset, recordBumps.Record)
	if record.OnSale {
		t.Fatal("record still on sale")
	}
	if record.CurrentIndex != 1 {
		t.Fatalf("index = %d, want 1", record.CurrentIndex)
	}
	if got := record.VolumeAmount().Uint64(); got != 2_000_000_000 {
		t.Fatalf("volume = %d", got)
	}

	// Asset to the buyer, price to the seller, fee to the store owner.
	if got := env.tokenAmount(keylet.UserToken(buyer, asset)); got != 1 {
		t.Fatalf("buyer holds %d units", got)
	}
	if got := env.tokenAmount(keylet.RecordToken(asset, recordBumps.TokenAccount)); got != 0 {
		t.Fatalf("escrow holds %d units", got)
	}
	if got := env.balance(buyer); got != 1_000_000_000 {
		t.Fatalf("buyer balance = %d", got)
	}
	if got := env.balance(seller); got != 2_900_000_000 {
		t.Fatalf("seller balance = %d", got)
	}
	if got := env.balance(owner); got != 100_000_000 {
		t.Fatalf("owner balance = %d", got)
	}
	if got := env.balance(keylet.Record(asset, recordBumps.Record).Key); got != 0 {
		t.Fatalf("record balance = %d", got)
	}

	env.applyExpect(
		NewBuyAsset(buyer, asset, storeName, storeBump, recordBumps, seller, owner),
		TecNOT_ON_SALE)
}

func TestSelfBuyConservesValue(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 10_000_000_000)

	env.mustApply(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 2_000_000_000, 500))

	// A seller may buy back their own listing. The price payment is a
	// self-transfer and must net zero; only the held fee moves.
	res := env.mustApply(
		NewBuyAsset(seller, asset, storeName, storeBump, recordBumps, seller, owner))

	ev, ok := res.Events[0].(SoldEvent)
	if !ok {
		t.Fatalf("unexpected event %T", res.Events[0])
	}
	if ev.Seller != seller || ev.Customer != seller {
		t.Fatalf("unexpected parties: %+v", ev)
	}

	// 1e8 fee paid at listing, nothing else: the price never leaves
	// or enters the seller's account.
	if got := env.balance(seller); got != 9_900_000_000 {
		t.Fatalf("seller balance = %d, want 9900000000", got)
	}
	if got := env.balance(owner); got != 100_000_000 {
		t.Fatalf("owner balance = %d", got)
	}
	if got := env.tokenAmount(keylet.UserToken(seller, asset)); got != 1 {
		t.Fatalf("seller holds %d units", got)
	}

	record := env.readRecord(asset, recordBumps.Record)
	if record.OnSale || record.CurrentIndex != 1 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if got := record.VolumeAmount().Uint64(); got != 2_000_000_000 {
		t.Fatalf("volume = %d", got)
	}
}

func TestBuyRejectsWrongParties(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 1_000_000_000)
	env.fund(buyer, 3_000_000_000)
	env.mustApply(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 2_000_000_000, 500))

	other := testAddr(0x04)

	// A wrong receiver or holder is rejected, never substituted.
	env.applyExpect(
		NewBuyAsset(buyer, asset, storeName, storeBump, recordBumps, other, owner),
		TecNO_PERMISSION)
	env.applyExpect(
		NewBuyAsset(buyer, asset, storeName, storeBump, recordBumps, seller, other),
		TecNO_PERMISSION)

	// Still on sale, nothing moved.
	if !env.readRecord(asset, recordBumps.Record).OnSale {
		t.Fatal("record no longer on sale")
	}
	if got := env.balance(buyer); got != 3_000_000_000 {
		t.Fatalf("buyer balance = %d", got)
	}
}

func TestBuyUnfundedBuyer(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 1_000_000_000)
	env.fund(buyer, 1_000) // cannot cover the price

	env.mustApply(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 2_000_000_000, 500))
	env.applyExpect(
		NewBuyAsset(buyer, asset, storeName, storeBump, recordBumps, seller, owner),
		TecUNFUNDED)

	// The listing survives a failed purchase.
	if !env.readRecord(asset, recordBumps.Record).OnSale {
		t.Fatal("record no longer on sale")
	}
	if got := env.tokenAmount(keylet.RecordToken(asset, recordBumps.TokenAccount)); got != 1 {
		t.Fatalf("escrow holds %d units", got)
	}
}

func TestRedeemReturnsAssetAndFee(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 1_000_000_000)

	env.mustApply(
		NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 2_000_000_000, 500))
	res := env.mustApply(
		NewRedeemAsset(seller, asset, storeName, storeBump, recordBumps))

	if len(res.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(res.Events))
	}
	ev, ok := res.Events[0].(RedeemedEvent)
	if !ok {
		t.Fatalf("unexpected event %T", res.Events[0])
	}
	if ev.Redeemer != seller || ev.AssetID != asset {
		t.Fatalf("unexpected event: %+v", ev)
	}

	// Asset and held fee both returned.
	if got := env.tokenAmount(keylet.UserToken(seller, asset)); got != 1 {
		t.Fatalf("seller holds %d units", got)
	}
	if got := env.tokenAmount(keylet.RecordToken(asset, recordBumps.TokenAccount)); got != 0 {
		t.Fatalf("escrow holds %d units", got)
	}
	if got := env.balance(seller); got != 1_000_000_000 {
		t.Fatalf("seller balance = %d", got)
	}

	record := env.readRecord(asset, recordBumps.Record)
	if record.OnSale {
		t.Fatal("record still on sale")
	}
	// Redeem leaves no receipt and does not advance the index.
	if record.CurrentIndex != 0 {
		t.Fatalf("index = %d after redeem", record.CurrentIndex)
	}
	if env.view.entries[keylet.Sold(asset, 0).Key] != nil {
		t.Fatal("redeem created a sold record")
	}

	env.applyExpect(
		NewRedeemAsset(seller, asset, storeName, storeBump, recordBumps),
		TecNOT_ON_SALE)
}

func TestRepeatedSalesAdvanceIndexAndVolume(t *testing.T) {
	env := setupListing(t)
	env.fund(seller, 10_000_000_000)
	env.fund(buyer, 10_000_000_000)

	prices := []uint64{2_000_000_000, 3_000_000_000}
	for i, price := range prices {
		env.mustApply(
			NewSellAsset(seller, asset, storeName, storeBump, recordBumps, price, 500))
		env.mustApply(
			NewBuyAsset(buyer, asset, storeName, storeBump, recordBumps, seller, owner))

		// Hand the unit back for the next round.
		if i < len(prices)-1 {
			env.mustApply(
				NewSellAsset(buyer, asset, storeName, storeBump, recordBumps, price, 500))
			env.mustApply(
				NewBuyAsset(seller, asset, storeName, storeBump, recordBumps, buyer, owner))
		}
	}

	record := env.readRecord(asset, recordBumps.Record)
	if record.CurrentIndex != 3 {
		t.Fatalf("index = %d, want 3", record.CurrentIndex)
	}
	// 2e9 + 2e9 + 3e9 across the three completed sales.
	if got := record.VolumeAmount().Uint64(); got != 7_000_000_000 {
		t.Fatalf("volume = %d", got)
	}

	// Each receipt sits at its own index.
	for i := uint32(0); i < 3; i++ {
		if env.view.entries[keylet.Sold(asset, i).Key] == nil {
			t.Fatalf("sold record %d missing", i)
		}
	}
}

func TestSellValidateTable(t *testing.T) {
	tests := []struct {
		name    string
		txn     *SellAsset
		wantErr bool
	}{
		{
			"valid",
			NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 1, 250),
			false,
		},
		{
			"zero price is allowed",
			NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 0, 250),
			false,
		},
		{
			"zero rate",
			NewSellAsset(seller, asset, storeName, storeBump, recordBumps, 1, 0),
			true,
		},
		{
			"zero asset",
			NewSellAsset(seller, types.ZeroAddress, storeName, storeBump, recordBumps, 1, 250),
			true,
		},
		{
			"zero account",
			NewSellAsset(types.ZeroAddress, asset, storeName, storeBump, recordBumps, 1, 250),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
