package imagedb_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/agrovision/labeldesk/internal/imagedb"
)

func TestStats_Unfiltered(t *testing.T) {
	fake := &fakeDynamo{records: []map[string]types.AttributeValue{
		withGold(rec("a", "Asha", "wheat"), true),
		withGold(rec("b", "Bala", "rice"), false),
		rec("c", "Channa", "ragi"),
	}}
	store := imagedb.New(fake, imagedb.DefaultConfig())

	stats, err := store.Stats(context.Background(), imagedb.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("expected total 3, got %d", stats.Total)
	}
	if stats.Verified != 1 {
		t.Errorf("expected verified 1 (absent counts as unverified), got %d", stats.Verified)
	}
}

func TestStats_WalksEveryPage(t *testing.T) {
	// Counts must cover the full filtered set, not a single page.
	var records []map[string]types.AttributeValue
	for i := 0; i < 7; i++ {
		records = append(records, withGold(rec(fmt.Sprintf("img-%d", i), "Asha", "wheat"), i%2 == 0))
	}
	fake := &fakeDynamo{records: records, pageSize: 2}
	store := imagedb.New(fake, imagedb.DefaultConfig())

	stats, err := store.Stats(context.Background(), imagedb.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.scanInputs) < 4 {
		t.Errorf("expected at least 4 scan pages, got %d", len(fake.scanInputs))
	}
	if stats.Total != 7 || stats.Verified != 4 {
		t.Errorf("expected 7/4, got %d/%d", stats.Total, stats.Verified)
	}
}

func TestStats_FarmerAndCrop_AppliesCropPerPage(t *testing.T) {
	fake := &fakeDynamo{records: []map[string]types.AttributeValue{
		withGold(rec("a", "Asha", "wheat"), true),
		withGold(rec("b", "Asha", "rice"), true),
		rec("c", "Asha", "wheat"),
		rec("d", "Bala", "wheat"),
	}, pageSize: 2}
	store := imagedb.New(fake, imagedb.DefaultConfig())

	stats, err := store.Stats(context.Background(), imagedb.Filters{Farmer: "Asha", Crop: "wheat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.queryInputs) == 0 {
		t.Fatal("expected farmer index queries")
	}
	for _, in := range fake.queryInputs {
		if in.IndexName == nil || *in.IndexName != "GSI_FarmerNameTimestamp" {
			t.Errorf("expected farmer index, got %v", in.IndexName)
		}
		if in.Limit != nil {
			t.Errorf("stats pages must be unbounded, got limit %d", *in.Limit)
		}
	}

	// Asha's wheat records are a and c; only a is verified.
	if stats.Total != 2 || stats.Verified != 1 {
		t.Errorf("expected 2/1, got %d/%d", stats.Total, stats.Verified)
	}
}

func TestStats_CropOnly_UsesCropIndex(t *testing.T) {
	fake := &fakeDynamo{records: []map[string]types.AttributeValue{
		withGold(rec("a", "Asha", "wheat"), true),
		rec("b", "Bala", "wheat"),
		rec("c", "Bala", "rice"),
	}}
	store := imagedb.New(fake, imagedb.DefaultConfig())

	stats, err := store.Stats(context.Background(), imagedb.Filters{Crop: "wheat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.queryInputs) != 1 {
		t.Fatalf("expected one query, got %d", len(fake.queryInputs))
	}
	if in := fake.queryInputs[0]; in.IndexName == nil || *in.IndexName != "GSI_CropNameTimestamp" {
		t.Errorf("expected crop index, got %v", fake.queryInputs[0].IndexName)
	}
	if stats.Total != 2 || stats.Verified != 1 {
		t.Errorf("expected 2/1, got %d/%d", stats.Total, stats.Verified)
	}
}

func TestStats_GoldFilterMatchesList(t *testing.T) {
	// The same filter set must count exactly the records List returns.
	fake := &fakeDynamo{records: []map[string]types.AttributeValue{
		withGold(rec("a", "Asha", "wheat"), true),
		withGold(rec("b", "Asha", "wheat"), false),
		rec("c", "Asha", "wheat"),
	}}
	store := imagedb.New(fake, imagedb.DefaultConfig())

	f := imagedb.Filters{Farmer: "Asha", Crop: "wheat", Gold: boolPtr(false)}

	page, err := store.List(context.Background(), f, 200, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats, err := store.Stats(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Total != len(page.Images) {
		t.Errorf("stats total %d disagrees with list result %d", stats.Total, len(page.Images))
	}
	if stats.Verified != 0 {
		t.Errorf("expected 0 verified under goldStandard=false, got %d", stats.Verified)
	}
}

func TestStats_ErrorPropagates(t *testing.T) {
	boom := errors.New("scan failed")
	fake := &fakeDynamo{scanErr: boom}
	store := imagedb.New(fake, imagedb.DefaultConfig())

	if _, err := store.Stats(context.Background(), imagedb.Filters{}); !errors.Is(err, boom) {
		t.Errorf("expected store error to propagate, got %v", err)
	}
}
