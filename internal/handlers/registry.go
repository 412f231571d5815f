package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	UserHandler       *UserHandler
	PostHandler       *PostHandler
	SimilarityHandler *SimilarityHandler
	AdminHandler      *AdminHandler
}
