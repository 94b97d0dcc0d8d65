package tx

import (
	"testing"

	"github.com/nftstore/nftstored/internal/core/ledger/keylet"
)

func TestApplyStateTableStagesUntilCommit(t *testing.T) {
	base := newMemoryView()
	k := keylet.Account(testAddr(0x10))

	table := NewApplyStateTable(base)
	if err := table.Insert(k, []byte("one")); err != nil {
		t.Fatal(err)
	}

	// Visible through the table, invisible in the base.
	data, err := table.Read(k)
	if err != nil || string(data) != "one" {
		t.Fatalf("staged read = %q, %v", data, err)
	}
	if exists, _ := base.Exists(k); exists {
		t.Fatal("insert leaked to base before commit")
	}

	if err := table.Commit(); err != nil {
		t.Fatal(err)
	}
	data, _ = base.Read(k)
	if string(data) != "one" {
		t.Fatalf("base after commit = %q", data)
	}
}

func TestApplyStateTableDiscard(t *testing.T) {
	base := newMemoryView()
	k := keylet.Account(testAddr(0x11))
	if err := base.Insert(k, []byte("orig")); err != nil {
		t.Fatal(err)
	}

	table := NewApplyStateTable(base)
	if err := table.Update(k, []byte("changed")); err != nil {
		t.Fatal(err)
	}
	if err := table.Erase(keylet.Account(testAddr(0x11))); err != nil {
		t.Fatal(err)
	}

	// Dropping the table without committing is the discard path.
	data, _ := base.Read(k)
	if string(data) != "orig" {
		t.Fatalf("base mutated without commit: %q", data)
	}
}

func TestApplyStateTableInsertOccupied(t *testing.T) {
	base := newMemoryView()
	k := keylet.Account(testAddr(0x12))
	if err := base.Insert(k, []byte("orig")); err != nil {
		t.Fatal(err)
	}

	table := NewApplyStateTable(base)
	if err := table.Insert(k, []byte("dup")); err == nil {
		t.Fatal("insert at occupied address succeeded")
	}

	// Staged inserts occupy the address too.
	k2 := keylet.Account(testAddr(0x13))
	if err := table.Insert(k2, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := table.Insert(k2, []byte("second")); err == nil {
		t.Fatal("double staged insert succeeded")
	}
}

func TestApplyStateTableEraseThenInsert(t *testing.T) {
	base := newMemoryView()
	k := keylet.Account(testAddr(0x14))
	if err := base.Insert(k, []byte("orig")); err != nil {
		t.Fatal(err)
	}

	table := NewApplyStateTable(base)
	if err := table.Erase(k); err != nil {
		t.Fatal(err)
	}
	if data, _ := table.Read(k); data != nil {
		t.Fatalf("read after erase = %q", data)
	}
	if exists, _ := table.Exists(k); exists {
		t.Fatal("exists after erase")
	}
	if err := table.Insert(k, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if err := table.Commit(); err != nil {
		t.Fatal(err)
	}
	data, _ := base.Read(k)
	if string(data) != "new" {
		t.Fatalf("base after commit = %q", data)
	}
}

func TestApplyStateTableInsertThenErase(t *testing.T) {
	base := newMemoryView()
	k := keylet.Account(testAddr(0x15))

	table := NewApplyStateTable(base)
	if err := table.Insert(k, []byte("temp")); err != nil {
		t.Fatal(err)
	}
	if err := table.Erase(k); err != nil {
		t.Fatal(err)
	}
	if err := table.Commit(); err != nil {
		t.Fatal(err)
	}
	if exists, _ := base.Exists(k); exists {
		t.Fatal("erased staged insert reached base")
	}
}
