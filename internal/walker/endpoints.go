package walker

// LIS API endpoint names, relative to the base URL.
// Positional segments are appended by the fetcher.
const (
	// Administrative code. Segments: {title}, {title}/{agency},
	// {title}/{agency}/{chapter} and, for section details,
	// {title}/{agency}/{chapter}/{section}/{point}/{colon}.
	epAdminTitles        = "AdministrativeCodeGetTitleListOfJson"
	epAdminAgencies      = "AdministrativeCodeGetAgencyListOfJson"
	epAdminPreface       = "AdministrativeCodePrefaceJson"
	epAdminChapters      = "AdministrativeCodeChapterListOfJson"
	epAdminSections      = "AdministrativeCodeGetSectionListOfJson"
	epAdminSectionDetail = "AdministrativeCodeGetSectionDetailsJson"

	// Authorities and charters. Details take {short}.
	epAuthorities     = "AuthoritiesGetListOfJson"
	epAuthorityDetail = "AuthoritiesGetDetailJson"
	epCharters        = "ChartersGetListOfJson"
	epCharterDetail   = "ChartersGetDetailJson"

	// Code of Virginia. Chapters take {title}, sections {title}/{chapter},
	// section details {section}.
	epCoVTitles        = "CoVTitlesGetListOfJson"
	epCoVChapters      = "CoVChaptersGetListOfJson"
	epCoVSections      = "CoVSectionsGetListOfJson"
	epCoVSectionDetail = "CoVSectionsGetSectionDetailsJson"

	// Compacts. Details take {short}.
	epCompacts      = "CompactsTitlesGetListOfJson"
	epCompactDetail = "CompactSectionsGetSectionDetailsJson"

	// Constitution. Sections take {article}, details {article}/{section}.
	epConstitutionArticles = "ConstitutionArticlesGetListOfJson"
	epConstitutionSections = "ConstitutionSectionsGetListOfJson"
	epConstitutionDetail   = "ConstitutionSectionDetailsJson"

	// Uncodified acts. Takes {year}.
	epUncodifiedByYear = "UncodifiedActChapterByYearGetListOfJson"
)

// Upstream field names used to build child URLs and attach children.
const (
	fieldTitleNumber   = "TitleNumber"
	fieldTitleName     = "TitleName"
	fieldAgencyNumber  = "AgencyNumber"
	fieldAgencyName    = "AgencyName"
	fieldChapterNumber = "ChapterNumber"
	fieldChapterNum    = "ChapterNum"
	fieldSectionNumber = "SectionNumber"
	fieldArticleNumber = "ArticleNumber"
	fieldShortName     = "ShortName"
	fieldBody          = "Body"

	fieldAgencyList  = "AgencyList"
	fieldPreface     = "Preface"
	fieldChapterList = "ChapterList"
	fieldSectionList = "SectionList"
	fieldSections    = "Sections"
	fieldArticleList = "ArticleList"
	fieldSubPartList = "SubPartList"
	fieldTitleList   = "TitleList"
)

// subSectionLocator is sent for both the point and colon sub-section
// segments of an administrative code section detail request.
// No listing response exposes the real values, so sub-sections are
// never addressed.
const subSectionLocator = "0"
