package services

// ServiceContainer собирает все сервисы приложения в одном месте, чтобы
// упростить прокидывание зависимостей в обработчики.
type ServiceContainer struct {
	PostService       *PostService
	SimilarityService *SimilarityService
	UserService       *UserService
}

func NewServiceContainer(
	postService *PostService,
	similarityService *SimilarityService,
	userService *UserService,
) *ServiceContainer {
	return &ServiceContainer{
		PostService:       postService,
		SimilarityService: similarityService,
		UserService:       userService,
	}
}
