// Package tool описывает инструменты, доступные клиентам протокола, и
// оборачивает их обработчики трассировкой и конвертацией ошибок.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownTool - инструмент с таким именем не зарегистрирован
var ErrUnknownTool = errors.New("unknown tool")

// Handler обрабатывает сырые JSON аргументы инструмента
type Handler func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Tool - описание инструмента и его обработчик
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Handler     Handler                `json:"-"`
}

// Registry - набор инструментов. Регистрация происходит при старте,
// дальше реестр только читается.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register добавляет инструмент; повторное имя - ошибка
func (r *Registry) Register(t Tool) error {
	if t.Name == "" || t.Handler == nil {
		return fmt.Errorf("tool must have a name and a handler")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}
	r.tools[t.Name] = t
	return nil
}

// List возвращает инструменты, отсортированные по имени
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Get возвращает инструмент по имени
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Call вызывает инструмент по имени
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Handler(ctx, args)
}
