package walker

import (
	"context"

	"github.com/nao1215/valaw/internal/fetch"
	"github.com/nao1215/valaw/internal/model"
)

// CodeOfVirginia walks Title → Chapter → Article → SubPart → Section → Section Detail.
//
// Unlike the administrative code, the document is flat: an object keyed
// "{title}_{chapter}" whose values are chapter records carrying the
// ArticleList tree returned by the section listing, with Body attached to
// each section. Chapters without a ChapterNum cannot be keyed and are left
// out.
type CodeOfVirginia struct {
	base
}

// Walk implements Walker.
func (w *CodeOfVirginia) Walk(ctx context.Context, g fetch.Getter) any {
	out := make(map[string]any)

	titles, ok := fetchList(ctx, g, []string{fieldTitleList}, epCoVTitles)
	if !ok {
		return out
	}

	for _, title := range titles {
		if ctx.Err() != nil {
			break
		}
		t, ok := w.id(title, fieldTitleNumber)
		if !ok {
			continue
		}
		chapters, ok := fetchList(ctx, g, []string{fieldChapterList}, epCoVChapters, t)
		if !ok {
			continue
		}
		for _, chapter := range chapters {
			if ctx.Err() != nil {
				break
			}
			c, ok := w.id(chapter, fieldChapterNum)
			if !ok {
				continue
			}
			out[compositeKey(t, c)] = w.chapter(ctx, g, t, c, chapter)
		}
	}
	return out
}

// chapter fetches the section listing of one chapter and returns the
// chapter record enriched with it.
func (w *CodeOfVirginia) chapter(ctx context.Context, g fetch.Getter, t, c string, chapter model.Record) model.Record {
	value := chapter.Without()

	resp, err := g.Fetch(ctx, epCoVSections, t, c)
	if err != nil {
		return value
	}
	if listing, ok := model.AsRecord(resp); ok {
		fillFrom(value, listing.Without(fieldArticleList))
	}

	articles := model.List(resp, fieldArticleList)
	for _, article := range articles {
		subparts, ok := children(article, fieldSubPartList)
		if !ok {
			continue
		}
		for _, subpart := range subparts {
			sections, ok := children(subpart, fieldSectionList)
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
				attachBody(ctx, g, section, epCoVSectionDetail, s)
			}
		}
	}
	value[fieldArticleList] = articles
	return value
}
