package models

// Category is a top-level catalog grouping.
type Category struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null" validate:"required,min=1,max=100"`
}

// SubCategory belongs to a Category; its name is unique per category.
type SubCategory struct {
	ID         int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string `json:"name" gorm:"not null;uniqueIndex:idx_subcat_name_cat" validate:"required,min=1,max=100"`
	CategoryID int64  `json:"category_id" gorm:"not null;uniqueIndex:idx_subcat_name_cat"`
}

// Brand is a catalog brand reference.
type Brand struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null" validate:"required,min=1,max=100"`
}

// Size is a variant size reference (e.g. "M", "42").
type Size struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null" validate:"required,min=1,max=50"`
}

// Color is a variant color reference.
type Color struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null" validate:"required,min=1,max=50"`
}

// Product is the catalog entry customers browse. Purchasable units are its
// variants; the product itself carries no price or stock.
type Product struct {
	ID            int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string `json:"name" gorm:"not null" validate:"required,min=1,max=200"`
	Description   string `json:"description" validate:"omitempty,max=1000"`
	CategoryID    int64  `json:"category_id"`
	SubCategoryID int64  `json:"sub_category_id"`
	BrandID       int64  `json:"brand_id"`
}

// ProductVariant is a concrete purchasable unit: a size/color combination
// of a product with its own price and stock count. Quantity is the single
// source of truth for "can this be sold" and must never go negative.
type ProductVariant struct {
	ID        int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID int64   `json:"product_id" gorm:"not null;index"`
	SizeID    int64   `json:"size_id"`
	ColorID   int64   `json:"color_id"`
	Price     float64 `json:"price" gorm:"not null" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" gorm:"not null;default:0" validate:"gte=0"`
	PhotoID   string  `json:"photo_id"`
	PhotoURL  string  `json:"photo_url"`
}

// VariantDetail is the read model used when a variant is shown or added to
// a cart: the variant joined with its product, size and color names.
type VariantDetail struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// DisplayName renders the variant the way receipts and carts show it.
func (v VariantDetail) DisplayName() string {
	if v.Size == "" && v.Color == "" {
		return v.ProductName
	}
	return v.ProductName + " (" + v.Size + ", " + v.Color + ")"
}
