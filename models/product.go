package models

// Product представляет товар каталога.
// ID и UserID назначаются сервером и на клиенте не изменяются.
type Product struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ProductTag  string `json:"product_tag"`
	Dealer      string `json:"dealer"`
	Description string `json:"description"`
	Company     string `json:"company"`
	UserID      int64  `json:"user_id"`
}

// ProductInput содержит изменяемые поля товара.
// Используется и для создания (multipart), и для обновления (JSON).
type ProductInput struct {
	Title       string `json:"title"`
	ProductTag  string `json:"product_tag"`
	Dealer      string `json:"dealer"`
	Description string `json:"description"`
	Company     string `json:"company"`
}

// Input возвращает изменяемые поля товара.
func (p Product) Input() ProductInput {
	return ProductInput{
		Title:       p.Title,
		ProductTag:  p.ProductTag,
		Dealer:      p.Dealer,
		Description: p.Description,
		Company:     p.Company,
	}
}

// ProductDetails объединяет товар и упорядоченный список URL его изображений.
type ProductDetails struct {
	Product Product  `json:"product details"`
	Images  []string `json:"product_images"`
}

// ProductListResponse - конверт ответа GET /product.
type ProductListResponse struct {
	Products []Product `json:"product list"`
}

// AddedProductResponse - конверт ответа POST /product.
type AddedProductResponse struct {
	Product Product `json:"added product"`
}

// UpdatedProductResponse - конверт ответа PUT /product/{id}.
type UpdatedProductResponse struct {
	Product Product `json:"updated product"`
}

// Image представляет изображение, прикладываемое к новому товару.
// Тэги validate проверяются пакетом schema перед отправкой.
type Image struct {
	Name        string `form:"name"`
	ContentType string `form:"content_type" validate:"oneof=image/jpeg image/png image/webp"`
	Size        int64  `form:"size"         validate:"max=5242880"`
	Data        []byte `form:"-"`
}
