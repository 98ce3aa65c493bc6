// Интерфейс Провайдера через который работает всё приложение.

package llm

import "context"

// Provider — контракт для любого AI-сервиса
type Provider interface {
	// Chat отправляет запрос и возвращает текстовый ответ модели.
	// Температура и лимит токенов задаются в самом запросе: классификация
	// идёт с temperature=0, discovery-запросы — с temperature>0.
	Chat(ctx context.Context, req ChatRequest) (string, error)
}
