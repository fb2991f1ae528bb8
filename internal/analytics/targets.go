package analytics

import (
	"github.com/adiwidjaja/tokolens/internal/search"
)

// Index mappings. Indices hold derived aggregates only, so a single
// shard without replicas is enough; dropping and recreating an index
// on a mapping change is always safe.

const salesMapping = `{
	"mappings": {
		"properties": {
			"month": {"type": "date", "format": "yyyy-MM-dd"},
			"total_sales": {"type": "double"},
			"transactions_count": {"type": "integer"}
		}
	},
	"settings": {"number_of_shards": 1, "number_of_replicas": 0}
}`

const categoriesMapping = `{
	"mappings": {
		"properties": {
			"category": {"type": "keyword"},
			"sales": {"type": "double"},
			"percentage": {"type": "double"}
		}
	},
	"settings": {"number_of_shards": 1, "number_of_replicas": 0}
}`

const customersMapping = `{
	"mappings": {
		"properties": {
			"category": {"type": "keyword"},
			"gender": {"type": "keyword"},
			"customers": {"type": "integer"},
			"total_items": {"type": "integer"}
		}
	},
	"settings": {"number_of_shards": 1, "number_of_replicas": 0}
}`

const ageGroupsMapping = `{
	"mappings": {
		"properties": {
			"ageGroup": {"type": "keyword"},
			"customers": {"type": "integer"},
			"sales": {"type": "double"}
		}
	},
	"settings": {"number_of_shards": 1, "number_of_replicas": 0}
}`

func salesTarget(src Source) SyncSpec[MonthlySalesRow] {
	return SyncSpec[MonthlySalesRow]{
		Index:   SalesIndex,
		Mapping: salesMapping,
		Fetch:   src.MonthlySales,
		Transform: func(r MonthlySalesRow) search.Document {
			return search.Document{
				ID: SalesDocID(r.Month),
				Body: SalesDoc{
					Month:        SalesDocID(r.Month),
					TotalSales:   r.TotalSales.InexactFloat64(),
					Transactions: r.Transactions,
				},
			}
		},
	}
}

func categoriesTarget(src Source) SyncSpec[CategoryShareRow] {
	return SyncSpec[CategoryShareRow]{
		Index:   CategoriesIndex,
		Mapping: categoriesMapping,
		Fetch:   src.CurrentMonthCategoryShares,
		Transform: func(r CategoryShareRow) search.Document {
			return search.Document{
				ID: CategoryDocID(r.Month, r.Category),
				Body: CategoryDoc{
					Category:   r.Category,
					Sales:      r.Sales.InexactFloat64(),
					Percentage: r.Percentage.InexactFloat64(),
				},
			}
		},
	}
}

func customersTarget(src Source) SyncSpec[CustomerSegmentRow] {
	return SyncSpec[CustomerSegmentRow]{
		Index:   CustomersIndex,
		Mapping: customersMapping,
		Fetch:   src.CustomerSegments,
		Transform: func(r CustomerSegmentRow) search.Document {
			return search.Document{
				ID: SegmentDocID(r.Category, r.Gender),
				Body: SegmentDoc{
					Category:   r.Category,
					Gender:     r.Gender,
					Customers:  r.Customers,
					TotalItems: r.TotalItems,
				},
			}
		},
	}
}

func ageGroupsTarget(src Source) SyncSpec[AgeGroupSalesRow] {
	return SyncSpec[AgeGroupSalesRow]{
		Index:   AgeGroupsIndex,
		Mapping: ageGroupsMapping,
		Fetch:   src.AgeGroupSales,
		Transform: func(r AgeGroupSalesRow) search.Document {
			return search.Document{
				ID: AgeGroupDocID(r.AgeGroup),
				Body: AgeGroupDoc{
					AgeGroup:  r.AgeGroup,
					Customers: r.Customers,
					Sales:     r.Sales.InexactFloat64(),
				},
			}
		},
	}
}
