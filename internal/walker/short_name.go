package walker

import (
	"context"

	"github.com/nao1215/valaw/internal/fetch"
	"github.com/nao1215/valaw/internal/model"
)

// ShortNameList walks a flat listing whose entries are identified by a
// short name, merging each entry's detail Body into it.
// Authorities and charters share this shape.
//
// The document is the listing itself. Entries without a short name stay in
// the list without a Body.
type ShortNameList struct {
	base
	listEndpoint   string
	detailEndpoint string
	listKeys       []string
}

func newAuthorities(b base) *ShortNameList {
	return &ShortNameList{
		base:           b,
		listEndpoint:   epAuthorities,
		detailEndpoint: epAuthorityDetail,
		listKeys:       []string{"AuthorityList", "Authorities"},
	}
}

func newCharters(b base) *ShortNameList {
	return &ShortNameList{
		base:           b,
		listEndpoint:   epCharters,
		detailEndpoint: epCharterDetail,
		listKeys:       []string{"CharterList", "Charters"},
	}
}

// Walk implements Walker.
func (w *ShortNameList) Walk(ctx context.Context, g fetch.Getter) any {
	entries, ok := fetchList(ctx, g, w.listKeys, w.listEndpoint)
	if !ok {
		return []model.Record{}
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		short, ok := w.id(entry, fieldShortName)
		if !ok {
			continue
		}
		attachBody(ctx, g, entry, w.detailEndpoint, short)
	}
	return entries
}

// Compacts walks the compact listing and its per-compact details.
//
// The document is an object keyed by short name. Each value is the listing
// entry with the detail fields it lacks filled in. Entries without a short
// name cannot be keyed and are left out.
type Compacts struct {
	base
}

// Walk implements Walker.
func (w *Compacts) Walk(ctx context.Context, g fetch.Getter) any {
	out := make(map[string]any)

	entries, ok := fetchList(ctx, g, []string{"CompactList", "Compacts"}, epCompacts)
	if !ok {
		return out
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		short, ok := w.id(entry, fieldShortName)
		if !ok {
			continue
		}
		value := entry.Without()
		if detail, ok := fetchDetail(ctx, g, epCompactDetail, short); ok {
			fillFrom(value, detail)
		}
		out[short] = value
	}
	return out
}
