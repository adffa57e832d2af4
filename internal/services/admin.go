package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

var hundredPercent = decimal.NewFromInt(100)

// AdminService groups the back-office operations that are plain CRUD on the backend.
// Catalog writes drop the cached catalog.
type AdminService struct {
	API     *apiclient.Client
	Catalog *CatalogService
}

func NewAdminService(api *apiclient.Client, catalog *CatalogService) *AdminService {
	return &AdminService{API: api, Catalog: catalog}
}

func (s *AdminService) audit(ctx context.Context, sess *Session, action string, id int64) {
	applog.FromContext(ctx).Log(ctx, applog.LevelAudit, action, "actor_id", sess.UserID(), "id", id)
}

func (s *AdminService) invalidate(ctx context.Context, extra ...string) {
	if err := s.Catalog.Invalidate(ctx, extra...); err != nil {
		applog.FromContext(ctx).Error("catalog.invalidate_failed", "err", err)
	}
}

// Reports.

// Revenue reads the revenue report between two optional YYYY-MM-DD dates.
func (s *AdminService) Revenue(ctx context.Context, sess *Session, start, end string) (domain.RevenueReport, error) {
	if err := requireAdmin(sess); err != nil {
		return domain.RevenueReport{}, err
	}
	from, to, err := dateRange(start, end)
	if err != nil {
		return domain.RevenueReport{MonthlyBreakdown: []domain.MonthlyRevenue{}}, err
	}
	return s.API.Revenue(sess.Context(ctx), from, to)
}

func dateRange(start, end string) (time.Time, time.Time, error) {
	var from, to time.Time
	if start != "" {
		t, ok := validate.Date(start)
		if !ok {
			return from, to, &FieldError{Field: "start_date", Message: "Date de début invalide."}
		}
		from = t
	}
	if end != "" {
		t, ok := validate.Date(end)
		if !ok {
			return from, to, &FieldError{Field: "end_date", Message: "Date de fin invalide."}
		}
		to = t
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return from, to, &FieldError{Field: "end_date", Message: "La date de fin précède la date de début.", Err: ErrInvalidDateRange}
	}
	return from, to, nil
}

func (s *AdminService) Export(ctx context.Context, sess *Session, format apiclient.ExportFormat) (apiclient.Export, error) {
	if err := requireAdmin(sess); err != nil {
		return apiclient.Export{}, err
	}
	exp, err := s.API.ExportReport(sess.Context(ctx), format)
	if err != nil {
		return apiclient.Export{}, err
	}
	s.audit(ctx, sess, "report.exported", 0)
	return exp, nil
}

func (s *AdminService) Activities(ctx context.Context, sess *Session, f apiclient.ActivityFilter) (domain.Page[domain.Activity], error) {
	if err := requireAdmin(sess); err != nil {
		return domain.EmptyPage[domain.Activity](), err
	}
	return s.API.Activities(sess.Context(ctx), f)
}

func (s *AdminService) Activity(ctx context.Context, sess *Session, id int64) (domain.Activity, error) {
	if err := requireAdmin(sess); err != nil {
		return domain.Activity{}, err
	}
	return s.API.Activity(sess.Context(ctx), id)
}

// Discounts.

func (s *AdminService) Discounts(ctx context.Context, sess *Session) ([]domain.Discount, error) {
	if err := requireAdmin(sess); err != nil {
		return []domain.Discount{}, err
	}
	ds, err := s.API.Discounts(sess.Context(ctx))
	if err != nil {
		return []domain.Discount{}, err
	}
	return ds, nil
}

func (s *AdminService) SaveDiscount(ctx context.Context, sess *Session, d domain.Discount) (domain.Discount, error) {
	if err := requireAdmin(sess); err != nil {
		return domain.Discount{}, err
	}
	code, ok := validate.DiscountCode(d.Code)
	if !ok || code == "" {
		return domain.Discount{}, &FieldError{Field: "code", Message: "Le code doit contenir 3 à 32 caractères alphanumériques."}
	}
	d.Code = code
	if !d.Type.Valid() {
		return domain.Discount{}, &FieldError{Field: "type", Message: "Type de remise inconnu."}
	}
	if !d.Value.IsPositive() {
		return domain.Discount{}, &FieldError{Field: "value", Message: "La valeur doit être positive."}
	}
	if d.Type == domain.DiscountPercentage && d.Value.GreaterThan(hundredPercent) {
		return domain.Discount{}, &FieldError{Field: "value", Message: "Un pourcentage ne peut dépasser 100."}
	}
	if d.MinOrderAmount != nil && d.MinOrderAmount.IsNegative() {
		return domain.Discount{}, &FieldError{Field: "min_order_amount", Message: "Le minimum de commande ne peut être négatif."}
	}
	var (
		out domain.Discount
		err error
	)
	if d.ID == 0 {
		out, err = s.API.CreateDiscount(sess.Context(ctx), d)
	} else {
		out, err = s.API.UpdateDiscount(sess.Context(ctx), d.ID, d)
	}
	if err != nil {
		return domain.Discount{}, err
	}
	s.audit(ctx, sess, "discount.saved", out.ID)
	return out, nil
}

func (s *AdminService) DeleteDiscount(ctx context.Context, sess *Session, id int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.API.DeleteDiscount(sess.Context(ctx), id); err != nil {
		return err
	}
	s.audit(ctx, sess, "discount.deleted", id)
	return nil
}

// Carousel.

func (s *AdminService) Slides(ctx context.Context, sess *Session) ([]domain.CarouselSlide, error) {
	if err := requireAdmin(sess); err != nil {
		return []domain.CarouselSlide{}, err
	}
	slides, err := s.API.AdminSlides(sess.Context(ctx))
	if err != nil {
		return []domain.CarouselSlide{}, err
	}
	return slides, nil
}

func (s *AdminService) SaveSlide(ctx context.Context, sess *Session, id int64, in apiclient.SlideInput) (domain.CarouselSlide, error) {
	if err := requireAdmin(sess); err != nil {
		return domain.CarouselSlide{}, err
	}
	if in.Title == "" {
		return domain.CarouselSlide{}, &FieldError{Field: "title", Message: "Le titre est obligatoire."}
	}
	if in.Order < 0 || in.Height < 0 {
		return domain.CarouselSlide{}, &FieldError{Field: "order", Message: "L'ordre et la hauteur ne peuvent être négatifs."}
	}
	if id == 0 && in.Image == nil {
		return domain.CarouselSlide{}, &FieldError{Field: "image", Message: "Une image est obligatoire."}
	}
	var (
		out domain.CarouselSlide
		err error
	)
	if id == 0 {
		out, err = s.API.CreateSlide(sess.Context(ctx), in)
	} else {
		out, err = s.API.UpdateSlide(sess.Context(ctx), id, in)
	}
	if err != nil {
		return domain.CarouselSlide{}, err
	}
	s.invalidate(ctx)
	s.audit(ctx, sess, "carousel.saved", out.ID)
	return out, nil
}

func (s *AdminService) DeleteSlide(ctx context.Context, sess *Session, id int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.API.DeleteSlide(sess.Context(ctx), id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Catalog.

func (s *AdminService) SaveMaterial(ctx context.Context, sess *Session, id int64, in apiclient.CatalogItemInput) (domain.Material, error) {
	if err := s.checkCatalogItem(sess, in); err != nil {
		return domain.Material{}, err
	}
	m, err := s.API.SaveMaterial(sess.Context(ctx), id, in)
	if err != nil {
		return domain.Material{}, err
	}
	s.invalidate(ctx)
	s.audit(ctx, sess, "material.saved", m.ID)
	return m, nil
}

func (s *AdminService) DeleteMaterial(ctx context.Context, sess *Session, id int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.API.DeleteMaterial(sess.Context(ctx), id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *AdminService) SaveShape(ctx context.Context, sess *Session, id int64, in apiclient.CatalogItemInput) (domain.Shape, error) {
	if err := s.checkCatalogItem(sess, in); err != nil {
		return domain.Shape{}, err
	}
	sh, err := s.API.SaveShape(sess.Context(ctx), id, in)
	if err != nil {
		return domain.Shape{}, err
	}
	s.invalidate(ctx)
	s.audit(ctx, sess, "shape.saved", sh.ID)
	return sh, nil
}

// DeleteShape fails with apiclient.ErrConflict while a dimension still uses the shape.
func (s *AdminService) DeleteShape(ctx context.Context, sess *Session, id int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.API.DeleteShape(sess.Context(ctx), id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *AdminService) checkCatalogItem(sess *Session, in apiclient.CatalogItemInput) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if _, ok := validate.Name(in.Name); !ok {
		return &FieldError{Field: "name", Message: "Le nom est obligatoire (100 caractères maximum)."}
	}
	return nil
}

func (s *AdminService) SaveCategory(ctx context.Context, sess *Session, c domain.Category) (domain.Category, error) {
	if err := requireAdmin(sess); err != nil {
		return domain.Category{}, err
	}
	name, ok := validate.Name(c.Name)
	if !ok {
		return domain.Category{}, &FieldError{Field: "name", Message: "Le nom est obligatoire (100 caractères maximum)."}
	}
	c.Name = name
	out, err := s.API.SaveCategory(sess.Context(ctx), c)
	if err != nil {
		return domain.Category{}, err
	}
	s.invalidate(ctx)
	return out, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, sess *Session, id int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.API.DeleteCategory(sess.Context(ctx), id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *AdminService) Dimensions(ctx context.Context, sess *Session) ([]domain.MaterialDimension, error) {
	if err := requireAdmin(sess); err != nil {
		return []domain.MaterialDimension{}, err
	}
	dims, err := s.API.AdminDimensions(sess.Context(ctx))
	if err != nil {
		return []domain.MaterialDimension{}, err
	}
	return dims, nil
}

func (s *AdminService) SaveDimension(ctx context.Context, sess *Session, d domain.MaterialDimension) (domain.MaterialDimension, error) {
	if err := requireAdmin(sess); err != nil {
		return domain.MaterialDimension{}, err
	}
	if d.MaterialID <= 0 || d.ShapeID <= 0 || d.DimensionLabel == "" {
		return domain.MaterialDimension{}, &FieldError{Field: "dimension_label", Message: "Matériau, forme et libellé sont obligatoires."}
	}
	if !d.UnitPriceFCFA.IsPositive() {
		return domain.MaterialDimension{}, &FieldError{Field: "unit_price_fcfa", Message: "Le prix unitaire doit être positif."}
	}
	out, err := s.API.SaveDimension(sess.Context(ctx), d)
	if err != nil {
		return domain.MaterialDimension{}, err
	}
	s.invalidate(ctx, DimensionsKey(d.MaterialID, d.ShapeID))
	s.audit(ctx, sess, "dimension.saved", out.ID)
	return out, nil
}

// DeleteDimension takes the material and shape so the matching cached lookup is dropped.
func (s *AdminService) DeleteDimension(ctx context.Context, sess *Session, d domain.MaterialDimension) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.API.DeleteDimension(sess.Context(ctx), d.ID); err != nil {
		return err
	}
	s.invalidate(ctx, DimensionsKey(d.MaterialID, d.ShapeID))
	return nil
}

// Users.

func (s *AdminService) Users(ctx context.Context, sess *Session) ([]domain.User, error) {
	if err := requireAdmin(sess); err != nil {
		return []domain.User{}, err
	}
	us, err := s.API.AdminUsers(sess.Context(ctx))
	if err != nil {
		return []domain.User{}, err
	}
	return us, nil
}

// Clients is the customer list shown to controllers and admins.
func (s *AdminService) Clients(ctx context.Context, sess *Session) ([]domain.User, error) {
	if err := requireStaff(sess); err != nil {
		return []domain.User{}, err
	}
	us, err := s.API.Clients(sess.Context(ctx))
	if err != nil {
		return []domain.User{}, err
	}
	return us, nil
}
