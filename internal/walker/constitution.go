package walker

import (
	"context"

	"github.com/nao1215/valaw/internal/fetch"
)

// Constitution walks Article → Section → Section Detail.
//
// The document is an object keyed "{article}_{section}". Each value is the
// section listing entry with the detail fields it lacks filled in.
type Constitution struct {
	base
}

// Walk implements Walker.
func (w *Constitution) Walk(ctx context.Context, g fetch.Getter) any {
	out := make(map[string]any)

	articles, ok := fetchList(ctx, g, []string{fieldArticleList}, epConstitutionArticles)
	if !ok {
		return out
	}

	for _, article := range articles {
		if ctx.Err() != nil {
			break
		}
		a, ok := w.id(article, fieldArticleNumber)
		if !ok {
			continue
		}
		sections, ok := fetchList(ctx, g, []string{fieldSections, fieldSectionList}, epConstitutionSections, a)
		if !ok {
			continue
		}
		for _, section := range sections {
			if ctx.Err() != nil {
				break
			}
			s, ok := w.id(section, fieldSectionNumber)
			if !ok {
				continue
			}
			value := section.Without()
			if detail, ok := fetchDetail(ctx, g, epConstitutionDetail, a, s); ok {
				fillFrom(value, detail)
			}
			out[compositeKey(a, s)] = value
		}
	}
	return out
}
