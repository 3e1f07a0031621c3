package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

type macroDoc struct {
	CaloriesKcal   string  `bson:"calories_kcal"`
	ProteinG       string  `bson:"protein_g"`
	CarbohydratesG string  `bson:"carbohydrates_g"`
	FatG           string  `bson:"fat_g"`
	FiberG         *string `bson:"fiber_g,omitempty"`
	SugarG         *string `bson:"sugar_g,omitempty"`
}

type microDoc struct {
	SodiumMg    *string `bson:"sodium_mg,omitempty"`
	PotassiumMg *string `bson:"potassium_mg,omitempty"`
	CalciumMg   *string `bson:"calcium_mg,omitempty"`
	IronMg      *string `bson:"iron_mg,omitempty"`
	VitaminCMg  *string `bson:"vitamin_c_mg,omitempty"`
	VitaminDUg  *string `bson:"vitamin_d_ug,omitempty"`
}

type productDoc struct {
	ID              string    `bson:"id"`
	Source          string    `bson:"source"`
	Name            string    `bson:"name"`
	Brand           string    `bson:"brand,omitempty"`
	Barcode         string    `bson:"barcode,omitempty"`
	Macronutrients  macroDoc  `bson:"macronutrients"`
	Micronutrients  *microDoc `bson:"micronutrients,omitempty"`
	IsLiquid        bool      `bson:"is_liquid"`
	VolumeMlPer100g *string   `bson:"volume_ml_per_100g,omitempty"`
}

type entryDoc struct {
	ID         string     `bson:"_id"`
	TenantID   string     `bson:"tenant_id"`
	LogDate    string     `bson:"log_date"`
	Product    productDoc `bson:"product"`
	QuantityG  string     `bson:"quantity_g"`
	ConsumedAt time.Time  `bson:"consumed_at"`
	Note       string     `bson:"note,omitempty"`
}

type goalsDoc struct {
	TenantID       string  `bson:"_id"`
	CaloriesKcal   *string `bson:"calories_kcal,omitempty"`
	ProteinG       *string `bson:"protein_g,omitempty"`
	CarbohydratesG *string `bson:"carbohydrates_g,omitempty"`
	FatG           *string `bson:"fat_g,omitempty"`
	WaterMl        *string `bson:"water_ml,omitempty"`
}

type templateItemDoc struct {
	ProductID string `bson:"product_id"`
	Source    string `bson:"source"`
	QuantityG string `bson:"quantity_g"`
	Note      string `bson:"note,omitempty"`
}

type templateDoc struct {
	ID        string            `bson:"_id"`
	TenantID  string            `bson:"tenant_id"`
	Name      string            `bson:"name"`
	Items     []templateItemDoc `bson:"items"`
	CreatedAt time.Time         `bson:"created_at"`
}

func decString(d decimal.Decimal) string {
	return d.String()
}

func optDecString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDec(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse stored %s value %q: %w", field, raw, err)
	}
	return d, nil
}

func parseOptDec(raw *string, field string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := parseDec(*raw, field)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toProductDoc(p models.Product) productDoc {
	doc := productDoc{
		ID:      p.ID,
		Source:  string(p.Source),
		Name:    p.Name,
		Brand:   p.Brand,
		Barcode: p.Barcode,
		Macronutrients: macroDoc{
			CaloriesKcal:   decString(p.Macronutrients.CaloriesKcal),
			ProteinG:       decString(p.Macronutrients.ProteinG),
			CarbohydratesG: decString(p.Macronutrients.CarbohydratesG),
			FatG:           decString(p.Macronutrients.FatG),
			FiberG:         optDecString(p.Macronutrients.FiberG),
			SugarG:         optDecString(p.Macronutrients.SugarG),
		},
		IsLiquid:        p.IsLiquid,
		VolumeMlPer100g: optDecString(p.VolumeMlPer100g),
	}
	if p.Micronutrients != nil {
		doc.Micronutrients = &microDoc{
			SodiumMg:    optDecString(p.Micronutrients.SodiumMg),
			PotassiumMg: optDecString(p.Micronutrients.PotassiumMg),
			CalciumMg:   optDecString(p.Micronutrients.CalciumMg),
			IronMg:      optDecString(p.Micronutrients.IronMg),
			VitaminCMg:  optDecString(p.Micronutrients.VitaminCMg),
			VitaminDUg:  optDecString(p.Micronutrients.VitaminDUg),
		}
	}
	return doc
}

func fromProductDoc(doc productDoc) (models.Product, error) {
	source, err := models.ParseSource(doc.Source)
	if err != nil {
		return models.Product{}, fmt.Errorf("stored product %s: %w", doc.ID, err)
	}

	calories, err := parseDec(doc.Macronutrients.CaloriesKcal, "calories_kcal")
	if err != nil {
		return models.Product{}, err
	}
	protein, err := parseDec(doc.Macronutrients.ProteinG, "protein_g")
	if err != nil {
		return models.Product{}, err
	}
	carbs, err := parseDec(doc.Macronutrients.CarbohydratesG, "carbohydrates_g")
	if err != nil {
		return models.Product{}, err
	}
	fat, err := parseDec(doc.Macronutrients.FatG, "fat_g")
	if err != nil {
		return models.Product{}, err
	}
	fiber, err := parseOptDec(doc.Macronutrients.FiberG, "fiber_g")
	if err != nil {
		return models.Product{}, err
	}
	sugar, err := parseOptDec(doc.Macronutrients.SugarG, "sugar_g")
	if err != nil {
		return models.Product{}, err
	}
	volume, err := parseOptDec(doc.VolumeMlPer100g, "volume_ml_per_100g")
	if err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		ID:      doc.ID,
		Source:  source,
		Name:    doc.Name,
		Brand:   doc.Brand,
		Barcode: doc.Barcode,
		Macronutrients: models.Macronutrients{
			CaloriesKcal:   calories,
			ProteinG:       protein,
			CarbohydratesG: carbs,
			FatG:           fat,
			FiberG:         fiber,
			SugarG:         sugar,
		},
		IsLiquid:        doc.IsLiquid,
		VolumeMlPer100g: volume,
	}

	if doc.Micronutrients != nil {
		micros := &models.Micronutrients{}
		if micros.SodiumMg, err = parseOptDec(doc.Micronutrients.SodiumMg, "sodium_mg"); err != nil {
			return models.Product{}, err
		}
		if micros.PotassiumMg, err = parseOptDec(doc.Micronutrients.PotassiumMg, "potassium_mg"); err != nil {
			return models.Product{}, err
		}
		if micros.CalciumMg, err = parseOptDec(doc.Micronutrients.CalciumMg, "calcium_mg"); err != nil {
			return models.Product{}, err
		}
		if micros.IronMg, err = parseOptDec(doc.Micronutrients.IronMg, "iron_mg"); err != nil {
			return models.Product{}, err
		}
		if micros.VitaminCMg, err = parseOptDec(doc.Micronutrients.VitaminCMg, "vitamin_c_mg"); err != nil {
			return models.Product{}, err
		}
		if micros.VitaminDUg, err = parseOptDec(doc.Micronutrients.VitaminDUg, "vitamin_d_ug"); err != nil {
			return models.Product{}, err
		}
		product.Micronutrients = micros
	}

	return product, nil
}

func toEntryDoc(e models.LogEntry) entryDoc {
	return entryDoc{
		ID:         e.ID,
		TenantID:   e.TenantID,
		LogDate:    e.LogDate.Format(models.DateLayout),
		Product:    toProductDoc(e.Product),
		QuantityG:  decString(e.QuantityG),
		ConsumedAt: e.ConsumedAt.UTC(),
		Note:       e.Note,
	}
}

func fromEntryDoc(doc entryDoc) (models.LogEntry, error) {
	logDate, err := time.ParseInLocation(models.DateLayout, doc.LogDate, time.UTC)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("parse stored log_date %q: %w", doc.LogDate, err)
	}
	product, err := fromProductDoc(doc.Product)
	if err != nil {
		return models.LogEntry{}, err
	}
	quantity, err := parseDec(doc.QuantityG, "quantity_g")
	if err != nil {
		return models.LogEntry{}, err
	}

	return models.LogEntry{
		ID:         doc.ID,
		TenantID:   doc.TenantID,
		LogDate:    logDate,
		Product:    product,
		QuantityG:  quantity,
		ConsumedAt: doc.ConsumedAt.UTC(),
		Note:       doc.Note,
	}, nil
}

func toGoalsDoc(tenantID string, g models.Goals) goalsDoc {
	return goalsDoc{
		TenantID:       tenantID,
		CaloriesKcal:   optDecString(g.CaloriesKcal),
		ProteinG:       optDecString(g.ProteinG),
		CarbohydratesG: optDecString(g.CarbohydratesG),
		FatG:           optDecString(g.FatG),
		WaterMl:        optDecString(g.WaterMl),
	}
}

func fromGoalsDoc(doc goalsDoc) (models.Goals, error) {
	var goals models.Goals
	var err error
	if goals.CaloriesKcal, err = parseOptDec(doc.CaloriesKcal, "calories_kcal"); err != nil {
		return models.Goals{}, err
	}
	if goals.ProteinG, err = parseOptDec(doc.ProteinG, "protein_g"); err != nil {
		return models.Goals{}, err
	}
	if goals.CarbohydratesG, err = parseOptDec(doc.CarbohydratesG, "carbohydrates_g"); err != nil {
		return models.Goals{}, err
	}
	if goals.FatG, err = parseOptDec(doc.FatG, "fat_g"); err != nil {
		return models.Goals{}, err
	}
	if goals.WaterMl, err = parseOptDec(doc.WaterMl, "water_ml"); err != nil {
		return models.Goals{}, err
	}
	return goals, nil
}

func toTemplateDoc(t models.MealTemplate) templateDoc {
	items := make([]templateItemDoc, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, templateItemDoc{
			ProductID: item.ProductID,
			Source:    string(item.Source),
			QuantityG: decString(item.QuantityG),
			Note:      item.Note,
		})
	}
	return templateDoc{
		ID:        t.ID,
		TenantID:  t.TenantID,
		Name:      t.Name,
		Items:     items,
		CreatedAt: t.CreatedAt.UTC(),
	}
}

func fromTemplateDoc(doc templateDoc) (models.MealTemplate, error) {
	items := make([]models.TemplateItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		source, err := models.ParseSource(item.Source)
		if err != nil {
			return models.MealTemplate{}, fmt.Errorf("stored template %s: %w", doc.ID, err)
		}
		quantity, err := parseDec(item.QuantityG, "quantity_g")
		if err != nil {
			return models.MealTemplate{}, err
		}
		items = append(items, models.TemplateItem{
			ProductID: item.ProductID,
			Source:    source,
			QuantityG: quantity,
			Note:      item.Note,
		})
	}
	return models.MealTemplate{
		ID:        doc.ID,
		TenantID:  doc.TenantID,
		Name:      doc.Name,
		Items:     items,
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}
