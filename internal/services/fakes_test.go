package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"atelier_backend/internal/models"
	"atelier_backend/internal/repositories"
	"atelier_backend/internal/storage"
)

// In-memory doubles for the repository and storage interfaces. Each test
// builds its own instances; nothing is shared.

type fakeOrderRepo struct {
	orders  map[string]*models.Order
	deleted []string
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[string]*models.Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindGraph(ctx context.Context, id string) (*models.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *models.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) SetFolder(ctx context.Context, orderID, folderID, folderURL string) error {
	o, ok := r.orders[orderID]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	o.DriveFolderID = folderID
	o.DriveFolderURL = folderURL
	o.AssetsFinalized = true
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id string) error {
	delete(r.orders, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeCustomizationRepo struct {
	items     map[string]*models.OrderItem
	records   map[string]*models.OrderItemCustomization
	insertion []string
	seq       int
}

func newFakeCustomizationRepo() *fakeCustomizationRepo {
	return &fakeCustomizationRepo{
		items:   map[string]*models.OrderItem{},
		records: map[string]*models.OrderItemCustomization{},
	}
}

func (r *fakeCustomizationRepo) addItem(item *models.OrderItem) {
	r.items[item.ID] = item
}

func (r *fakeCustomizationRepo) FindOrderItem(ctx context.Context, id string) (*models.OrderItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrOrderItemNotFound
	}
	return item, nil
}

func (r *fakeCustomizationRepo) FindByID(ctx context.Context, id string) (*models.OrderItemCustomization, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrCustomizationNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeCustomizationRepo) FindByOrderItem(ctx context.Context, orderItemID string) ([]models.OrderItemCustomization, error) {
	var out []models.OrderItemCustomization
	for _, id := range r.insertion {
		if rec := r.records[id]; rec != nil && rec.OrderItemID == orderItemID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeCustomizationRepo) Create(ctx context.Context, c *models.OrderItemCustomization) error {
	if c.ID == "" {
		r.seq++
		c.ID = fmt.Sprintf("cust-%d", r.seq)
	}
	cp := *c
	r.records[c.ID] = &cp
	r.insertion = append(r.insertion, c.ID)
	return nil
}

func (r *fakeCustomizationRepo) Update(ctx context.Context, c *models.OrderItemCustomization) error {
	if _, ok := r.records[c.ID]; !ok {
		return repositories.ErrCustomizationNotFound
	}
	cp := *c
	r.records[c.ID] = &cp
	return nil
}

func (r *fakeCustomizationRepo) Delete(ctx context.Context, id string) error {
	delete(r.records, id)
	return nil
}

type fakeTransientRepo struct {
	assets map[string]*models.TransientAsset
}

func newFakeTransientRepo() *fakeTransientRepo {
	return &fakeTransientRepo{assets: map[string]*models.TransientAsset{}}
}

func (r *fakeTransientRepo) Create(ctx context.Context, asset *models.TransientAsset) error {
	r.assets[asset.FileName] = asset
	return nil
}

func (r *fakeTransientRepo) FindByFileName(ctx context.Context, fileName string) (*models.TransientAsset, error) {
	asset, ok := r.assets[fileName]
	if !ok {
		return nil, repositories.ErrTransientAssetNotFound
	}
	return asset, nil
}

func (r *fakeTransientRepo) FindExpired(ctx context.Context, now time.Time) ([]models.TransientAsset, error) {
	var out []models.TransientAsset
	for _, asset := range r.assets {
		if asset.Expired(now) {
			out = append(out, *asset)
		}
	}
	return out, nil
}

func (r *fakeTransientRepo) DeleteByFileNames(ctx context.Context, fileNames []string) error {
	for _, name := range fileNames {
		delete(r.assets, name)
	}
	return nil
}

type fakeProductRepo struct {
	rules map[string]*models.CustomizationRule
}

func newFakeProductRepo(rules ...*models.CustomizationRule) *fakeProductRepo {
	r := &fakeProductRepo{rules: map[string]*models.CustomizationRule{}}
	for _, rule := range rules {
		r.rules[rule.ID] = rule
	}
	return r
}

func (r *fakeProductRepo) FindRuleByID(ctx context.Context, id string) (*models.CustomizationRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, repositories.ErrRuleNotFound
	}
	return rule, nil
}

type fakeLayoutRepo struct {
	dynamic map[string]*models.DynamicLayout
	legacy  map[string]*models.Layout
}

func newFakeLayoutRepo() *fakeLayoutRepo {
	return &fakeLayoutRepo{
		dynamic: map[string]*models.DynamicLayout{},
		legacy:  map[string]*models.Layout{},
	}
}

func (r *fakeLayoutRepo) FindDynamicByID(ctx context.Context, id string) (*models.DynamicLayout, error) {
	return r.dynamic[id], nil
}

func (r *fakeLayoutRepo) FindLegacyByID(ctx context.Context, id string) (*models.Layout, error) {
	return r.legacy[id], nil
}

// fakeFolderStorage keeps everything in memory. Uploads run concurrently
// inside finalization, hence the mutex.
type fakeFolderStorage struct {
	mu          sync.Mutex
	files       map[string][]byte
	publicized  []string
	createCalls int
	failUpload  bool
}

func newFakeFolderStorage() *fakeFolderStorage {
	return &fakeFolderStorage{files: map[string][]byte{}}
}

func (s *fakeFolderStorage) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if parentID == "" {
		return name, nil
	}
	return parentID + "/" + name, nil
}

func (s *fakeFolderStorage) MakeFolderPublic(ctx context.Context, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publicized = append(s.publicized, folderID)
	return nil
}

func (s *fakeFolderStorage) UploadBuffer(ctx context.Context, data []byte, filename, folderID, mimeType string) (*storage.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpload {
		return nil, fmt.Errorf("upload rejected")
	}
	url := "/files/" + folderID + "/" + filename
	s.files[url] = data
	return &storage.StoredFile{ID: folderID + "/" + filename, URL: url}, nil
}

func (s *fakeFolderStorage) GetFolderURL(ctx context.Context, folderID string) (string, error) {
	return "/files/" + folderID, nil
}

func (s *fakeFolderStorage) Owns(url string) bool {
	return strings.HasPrefix(url, "/files/")
}

func (s *fakeFolderStorage) FileExists(ctx context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[url]
	return ok, nil
}
