package services

import (
	"pagebot/internal/models"
	"pagebot/internal/providers"
)

type PageServiceInterface interface {
	GetAll() map[string]*models.Page
	Get(key string) (*models.Page, error)
	Create(key string, page *models.Page) error
	Update(key string, upd *models.PageUpdate) (*models.Page, error)
	Delete(key string) error
	GetButtons(key string) ([][]models.Button, error)
	AddButton(key string, rowIndex int, btn models.Button) (*models.Page, error)
	RemoveButton(key string, rowIndex, buttonIndex int) (*models.Page, error)
	Search(query string) map[string]*models.Page
}

type PageService struct {
	state    *models.State
	store    StoreInterface
	recorder RecorderInterface
	logger   providers.Logger
}

func NewPageService(state *models.State, store StoreInterface, recorder RecorderInterface, logger providers.Logger) PageServiceInterface {
	return &PageService{state: state, store: store, recorder: recorder, logger: logger}
}

// persist runs the awaited save after a mutation. Save failures are
// logged and swallowed: the mutation already happened in memory and the
// admin response must not fail because the disk mirror lagged.
func (ps *PageService) persist(what string) {
	if err := ps.store.Save(); err != nil {
		ps.logger.Errorf(providers.TypeApp, "Save after %s failed: %s", what, err)
	}
}

func (ps *PageService) GetAll() map[string]*models.Page {
	return ps.state.Pages.GetAll()
}

func (ps *PageService) Get(key string) (*models.Page, error) {
	p, ok := ps.state.Pages.Get(key)
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (ps *PageService) Create(key string, page *models.Page) error {
	if err := ps.state.Pages.Create(key, page); err != nil {
		return err
	}
	ps.recorder.Record("admin", "page created: "+key, 0)
	ps.persist("page create")
	return nil
}

func (ps *PageService) Update(key string, upd *models.PageUpdate) (*models.Page, error) {
	p, err := ps.state.Pages.Update(key, upd)
	if err != nil {
		return nil, err
	}
	ps.recorder.Record("admin", "page updated: "+key, 0)
	ps.persist("page update")
	return p, nil
}

func (ps *PageService) Delete(key string) error {
	if err := ps.state.Pages.Delete(key); err != nil {
		return err
	}
	ps.recorder.Record("admin", "page deleted: "+key, 0)
	ps.persist("page delete")
	return nil
}

func (ps *PageService) GetButtons(key string) ([][]models.Button, error) {
	p, ok := ps.state.Pages.Get(key)
	if !ok {
		return nil, models.ErrNotFound
	}
	return p.Buttons, nil
}

func (ps *PageService) AddButton(key string, rowIndex int, btn models.Button) (*models.Page, error) {
	p, err := ps.state.Pages.AddButton(key, rowIndex, btn)
	if err != nil {
		return nil, err
	}
	ps.recorder.Record("admin", "button added to page "+key, 0)
	ps.persist("button add")
	return p, nil
}

func (ps *PageService) RemoveButton(key string, rowIndex, buttonIndex int) (*models.Page, error) {
	p, err := ps.state.Pages.DeleteButton(key, rowIndex, buttonIndex)
	if err != nil {
		return nil, err
	}
	ps.recorder.Record("admin", "button removed from page "+key, 0)
	ps.persist("button remove")
	return p, nil
}

func (ps *PageService) Search(query string) map[string]*models.Page {
	return ps.state.Pages.Search(query)
}
