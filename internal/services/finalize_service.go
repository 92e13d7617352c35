package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"atelier_backend/internal/logger"
	"atelier_backend/internal/models"
	"atelier_backend/internal/payload"
	"atelier_backend/internal/repositories"
	"atelier_backend/internal/services/dto"
	"atelier_backend/internal/storage"
	"atelier_backend/pkg/apperrors"
)

// FinalizeService migrates an order's customization assets into durable
// storage and scrubs embedded binary from the persisted payloads. The
// operation is idempotent per order: the order-level flag plus the
// naturally asset-free payloads of already-processed customizations make
// retries safe.
type FinalizeService interface {
	FinalizeOrder(ctx context.Context, orderID string) (*dto.FinalizeResult, error)
}

type finalizeService struct {
	orders         repositories.OrderRepository
	customizations repositories.CustomizationRepository
	transientRepo  repositories.TransientRepository
	folders        storage.FolderStorage
	transient      *storage.TransientFiles
	uploader       *AssetUploader
	labels         *LabelResolver
}

func NewFinalizeService(
	orders repositories.OrderRepository,
	customizations repositories.CustomizationRepository,
	transientRepo repositories.TransientRepository,
	folders storage.FolderStorage,
	transient *storage.TransientFiles,
	uploader *AssetUploader,
	labels *LabelResolver,
) FinalizeService {
	return &finalizeService{
		orders:         orders,
		customizations: customizations,
		transientRepo:  transientRepo,
		folders:        folders,
		transient:      transient,
		uploader:       uploader,
		labels:         labels,
	}
}

// finalizeRun holds the request-scoped state of one finalization pass.
// The subfolder cache is never shared across calls.
type finalizeRun struct {
	order         *models.Order
	mainFolderID  string
	subfolders    map[string]string
	uploadedCount int
	affectedIDs   []string
	transientRefs map[string]bool
}

func (s *finalizeService) FinalizeOrder(ctx context.Context, orderID string) (*dto.FinalizeResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("finalize", "order", orderID)
		}
		return nil, apperrors.InternalError(err)
	}

	if order.AssetsFinalized && order.DriveFolderID != "" {
		logger.Info("order already finalized", "order_id", orderID)
		return &dto.FinalizeResult{
			Status:    dto.FinalizeStatusAlreadyFinalized,
			FolderID:  order.DriveFolderID,
			FolderURL: order.DriveFolderURL,
		}, nil
	}

	graph, err := s.orders.FindGraph(ctx, orderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	run := &finalizeRun{
		order:         graph,
		subfolders:    map[string]string{},
		transientRefs: map[string]bool{},
	}

	for i := range graph.Items {
		item := &graph.Items[i]
		for j := range item.Customizations {
			if err := s.processCustomization(ctx, run, item, &item.Customizations[j]); err != nil {
				// A single upload failure aborts the whole call before the
				// idempotency flag is written, so a retry starts clean.
				return nil, err
			}
		}
	}

	s.deleteOrphanedTransients(ctx, run)

	if run.mainFolderID == "" {
		logger.Info("order has no extractable media", "order_id", orderID)
		return &dto.FinalizeResult{Status: dto.FinalizeStatusEmpty}, nil
	}

	if err := s.folders.MakeFolderPublic(ctx, run.mainFolderID); err != nil {
		return nil, apperrors.ErrIOFailure(err, "finalize", "failed to publish order folder")
	}
	folderURL, err := s.folders.GetFolderURL(ctx, run.mainFolderID)
	if err != nil {
		return nil, apperrors.ErrIOFailure(err, "finalize", "failed to resolve order folder URL")
	}
	if err := s.orders.SetFolder(ctx, orderID, run.mainFolderID, folderURL); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("order finalized",
		"order_id", orderID,
		"uploaded", run.uploadedCount,
		"affected", len(run.affectedIDs))

	return &dto.FinalizeResult{
		Status:                 dto.FinalizeStatusFinalized,
		FolderID:               run.mainFolderID,
		FolderURL:              folderURL,
		UploadedCount:          run.uploadedCount,
		ResidualBinaryDetected: len(run.affectedIDs) > 0,
		AffectedIDs:            run.affectedIDs,
	}, nil
}

func (s *finalizeService) processCustomization(ctx context.Context, run *finalizeRun, item *models.OrderItem, rec *models.OrderItemCustomization) error {
	p := payload.Decode(rec.Payload)

	candidates := ExtractAssets(p)
	if len(candidates) == 0 {
		return nil
	}

	folderID, err := s.ensureSubfolder(ctx, run, subfolderName(item, p))
	if err != nil {
		return err
	}

	uploaded, err := s.uploadAll(ctx, candidates, folderID, rec.ID)
	if err != nil {
		return err
	}
	run.uploadedCount += len(uploaded)

	// Only files whose bytes just reached durable storage may be deleted
	// at the end of the run. Transient refs in fields the extractor does
	// not migrate stay on disk until the TTL sweep.
	for _, cand := range candidates {
		if storage.IsTransientURL(cand.URL) {
			run.transientRefs[storage.FileNameFromURL(cand.URL)] = true
		}
	}

	removed := ApplyUploads(p, candidates, uploaded)
	if removed > 0 {
		logger.Warn("recursive scrub removed residual binary fields",
			"customization_id", rec.ID, "removed", removed)
	}
	if p.Label == "" {
		if err := s.labels.Apply(ctx, p); err != nil {
			logger.Warn("label recompute failed", "customization_id", rec.ID, "error", err)
		}
	}

	folderURL, err := s.folders.GetFolderURL(ctx, folderID)
	if err != nil {
		return apperrors.ErrIOFailure(err, "finalize", "failed to resolve subfolder URL")
	}

	rec.Payload = payload.Encode(p)
	rec.DriveFolderID = folderID
	rec.DriveFolderURL = folderURL
	if err := s.customizations.Update(ctx, rec); err != nil {
		return apperrors.InternalError(err)
	}

	return s.verifySaved(ctx, run, rec.ID)
}

// verifySaved re-reads the persisted payload and checks that no embedded
// binary survived. One self-heal pass (scrub and resave) runs before the
// record is reported as affected.
func (s *finalizeService) verifySaved(ctx context.Context, run *finalizeRun, id string) error {
	fresh, err := s.customizations.FindByID(ctx, id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !payload.HasEmbeddedBinary(payload.Decode(fresh.Payload).ToMap()) {
		return nil
	}

	logger.Warn("embedded binary survived sanitization, retrying scrub", "customization_id", id)

	p := payload.Decode(fresh.Payload)
	p.Scrub()
	fresh.Payload = payload.Encode(p)
	if err := s.customizations.Update(ctx, fresh); err != nil {
		return apperrors.InternalError(err)
	}

	fresh, err = s.customizations.FindByID(ctx, id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if payload.HasEmbeddedBinary(payload.Decode(fresh.Payload).ToMap()) {
		// Not fatal: reported for manual follow-up.
		logger.Error("embedded binary still present after self-heal", "customization_id", id)
		run.affectedIDs = append(run.affectedIDs, id)
	}
	return nil
}

func (s *finalizeService) uploadAll(ctx context.Context, candidates []AssetCandidate, folderID, customizationID string) ([]UploadedAsset, error) {
	uploaded := make([]UploadedAsset, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i := range candidates {
		i := i
		g.Go(func() error {
			result, err := s.uploader.Upload(gctx, candidates[i], folderID, customizationID)
			if err != nil {
				return err
			}
			uploaded[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uploaded, nil
}

// ensureSubfolder lazily creates the order's main folder and the named
// subfolder, caching both for the rest of the run.
func (s *finalizeService) ensureSubfolder(ctx context.Context, run *finalizeRun, name string) (string, error) {
	if run.mainFolderID == "" {
		mainName := fmt.Sprintf("order_%s", shortID(run.order.ID))
		id, err := s.folders.CreateFolder(ctx, mainName, "")
		if err != nil {
			return "", apperrors.ErrIOFailure(err, "finalize", "failed to create order folder")
		}
		run.mainFolderID = id
	}

	if id, ok := run.subfolders[name]; ok {
		return id, nil
	}
	id, err := s.folders.CreateFolder(ctx, name, run.mainFolderID)
	if err != nil {
		return "", apperrors.ErrIOFailure(err, "finalize", fmt.Sprintf("failed to create subfolder %s", name))
	}
	run.subfolders[name] = id
	return id, nil
}

// deleteOrphanedTransients backs up and removes every transient file
// migrated during this run. By this point their bytes live in durable
// storage.
func (s *finalizeService) deleteOrphanedTransients(ctx context.Context, run *finalizeRun) {
	if len(run.transientRefs) == 0 {
		return
	}
	names := make([]string, 0, len(run.transientRefs))
	for name := range run.transientRefs {
		if err := s.transient.Backup(name); err != nil {
			logger.Warn("transient backup failed, keeping file", "file", name, "error", err)
			continue
		}
		names = append(names, name)
	}

	deleted, failed := s.transient.DeleteFiles(names)
	if err := s.transientRepo.DeleteByFileNames(ctx, names); err != nil {
		logger.Warn("failed to drop transient rows", "error", err)
	}
	logger.Info("cleaned up transient files", "deleted", deleted, "failed", failed)
}

// subfolderName picks the human-readable folder a customization's assets
// land in: owning additional's name, else the component's item name, else
// the product name, else the type tag.
func subfolderName(item *models.OrderItem, p *payload.Payload) string {
	ruleID := p.RuleID
	for _, add := range item.Additionals {
		for _, rule := range add.Rules {
			if rule.ID == ruleID && ruleID != "" {
				return add.Name
			}
		}
	}
	if p.ComponentID != "" && item.Product != nil {
		for _, comp := range item.Product.Components {
			if comp.ID == p.ComponentID && comp.Item != nil {
				return comp.Item.Name
			}
		}
	}
	if item.Product != nil && item.Product.Name != "" {
		return item.Product.Name
	}
	if p.Type != "" {
		return p.Type
	}
	return "customizations"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
