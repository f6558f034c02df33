package walker

import (
	"context"

	"github.com/nao1215/valaw/internal/fetch"
	"github.com/nao1215/valaw/internal/model"
)

// prefaceDuplicates are the fields a preface repeats from its agency.
// They are dropped before the preface is attached.
var prefaceDuplicates = []string{
	fieldTitleNumber,
	fieldTitleName,
	fieldAgencyNumber,
	fieldAgencyName,
}

// AdministrativeCode walks Title → Agency → Chapter → Section → Section Detail.
//
// The document is a list of title records, each carrying the nested tree:
//
//	[Title{..., AgencyList: [Agency{..., Preface: {...},
//	    ChapterList: [Chapter{..., SectionList: [Section{..., Body}]}]}]}]
//
// Every child field is set only when the fetch behind it succeeded.
type AdministrativeCode struct {
	base
}

// Walk implements Walker.
func (w *AdministrativeCode) Walk(ctx context.Context, g fetch.Getter) any {
	titles, ok := fetchList(ctx, g, []string{fieldTitleList}, epAdminTitles)
	if !ok {
		return []model.Record{}
	}

	for _, title := range titles {
		if ctx.Err() != nil {
			break
		}
		w.title(ctx, g, title)
	}
	return titles
}

func (w *AdministrativeCode) title(ctx context.Context, g fetch.Getter, title model.Record) {
	t, ok := w.id(title, fieldTitleNumber)
	if !ok {
		return
	}

	agencies, ok := fetchList(ctx, g, []string{fieldAgencyList}, epAdminAgencies, t)
	if !ok {
		return
	}
	for _, agency := range agencies {
		if ctx.Err() != nil {
			break
		}
		w.agency(ctx, g, t, agency)
	}
	title[fieldAgencyList] = agencies
}

func (w *AdministrativeCode) agency(ctx context.Context, g fetch.Getter, t string, agency model.Record) {
	a, ok := w.id(agency, fieldAgencyNumber)
	if !ok {
		return
	}

	if resp, err := g.Fetch(ctx, epAdminPreface, t, a); err == nil {
		// A successful but objectless answer still yields an empty preface.
		preface, _ := model.First(resp)
		agency[fieldPreface] = preface.Without(prefaceDuplicates...)
	}

	chapters, ok := fetchList(ctx, g, []string{fieldChapterList}, epAdminChapters, t, a)
	if !ok {
		return
	}
	for _, chapter := range chapters {
		if ctx.Err() != nil {
			break
		}
		w.chapter(ctx, g, t, a, chapter)
	}
	agency[fieldChapterList] = chapters
}

func (w *AdministrativeCode) chapter(ctx context.Context, g fetch.Getter, t, a string, chapter model.Record) {
	c, ok := w.id(chapter, fieldChapterNumber)
	if !ok {
		return
	}

	// The section list sits under "Sections" at a fixed depth, either
	// directly ($.Sections) or in each element of a wrapper array
	// ($[*].Sections). Some responses use "SectionList" instead.
	sections, ok := fetchList(ctx, g, []string{fieldSections, fieldSectionList}, epAdminSections, t, a, c)
	if !ok {
		return
	}
	for _, section := range sections {
		if ctx.Err() != nil {
			break
		}
		s, ok := w.id(section, fieldSectionNumber)
		if !ok {
			continue
		}
		attachBody(ctx, g, section, epAdminSectionDetail, t, a, c, s, subSectionLocator, subSectionLocator)
	}
	chapter[fieldSectionList] = sections
}
