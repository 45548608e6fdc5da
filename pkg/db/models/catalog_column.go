package models

// CatalogColumn is the global list of column names ever seen across all
// events, with their display order. Updated best-effort from each
// import's header row; never blocks an import on failure.
type CatalogColumn struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ColumnName   string `gorm:"column:column_name;not null;unique"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0"`
	IsBaseField  bool   `gorm:"column:is_base_field;not null;default:false"`
}
