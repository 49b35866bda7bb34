package schema

// CatalogMangaTable represents the 'catalog.manga' table
type CatalogMangaTable struct {
	Table           string
	ID              string
	ExternalID      string
	Title           string
	Slug            string
	Author          string
	Genres          string
	Price           string
	DisplayImage    string
	ProviderImage   string
	Description     string
	PopularityScore string
	QualityScore    string
	Status          string
	VolumeCount     string
	ChapterCount    string
	CreatedAt       string
	UpdatedAt       string
}

// CatalogManga is the schema definition for catalog.manga
var CatalogManga = CatalogMangaTable{
	Table:           "catalog.manga",
	ID:              "id",
	ExternalID:      "external_id",
	Title:           "title",
	Slug:            "slug",
	Author:          "author",
	Genres:          "genres",
	Price:           "price",
	DisplayImage:    "display_image",
	ProviderImage:   "provider_image",
	Description:     "description",
	PopularityScore: "popularity_score",
	QualityScore:    "quality_score",
	Status:          "status",
	VolumeCount:     "volume_count",
	ChapterCount:    "chapter_count",
	CreatedAt:       "created_at",
	UpdatedAt:       "updated_at",
}

func (t CatalogMangaTable) Columns() []string {
	return []string{
		t.ID, t.ExternalID, t.Title, t.Slug, t.Author, t.Genres, t.Price,
		t.DisplayImage, t.ProviderImage, t.Description, t.PopularityScore,
		t.QualityScore, t.Status, t.VolumeCount, t.ChapterCount,
		t.CreatedAt, t.UpdatedAt,
	}
}
