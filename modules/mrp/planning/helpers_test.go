package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/bom"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/part"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/schedule"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func lotForLotPart(partNumber string, leadTimeDays int) part.Part {
	return part.Part{
		ID:            uuid.New(),
		SiteID:        uuid.New(),
		PartNumber:    partNumber,
		ProductType:   part.ProductTypeManufactured,
		LeadTimeDays:  leadTimeDays,
		LotSizingRule: part.LotForLot,
		IsActive:      true,
	}
}

func fixedMultiplePart(partNumber string, leadTimeDays int, min, multiple string) part.Part {
	p := lotForLotPart(partNumber, leadTimeDays)
	p.LotSizingRule = part.FixedMultiple
	p.LotSizeMin = d(min)
	p.LotSizeMultiple = d(multiple)
	return p
}

func activeEdge(parent, component part.Part, quantityPer, scrapFactor string) bom.BOMItem {
	return bom.BOMItem{
		ID:              uuid.New(),
		ParentPartID:    parent.ID,
		ComponentPartID: component.ID,
		QuantityPer:     d(quantityPer),
		ScrapFactor:     d(scrapFactor),
		EffectiveDate:   day("2000-01-01"),
		IsActive:        true,
	}
}

func scheduleEntry(p part.Part, quantity, startDate string) schedule.Entry {
	return schedule.Entry{
		ID:               uuid.New(),
		ScheduleID:       uuid.New(),
		PartID:           p.ID,
		PlannedQuantity:  d(quantity),
		PlannedStartDate: day(startDate),
		PlannedEndDate:   day(startDate).AddDate(0, 0, 7),
	}
}
