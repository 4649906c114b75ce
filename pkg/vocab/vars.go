package vocab

// DefaultFields are downloaded when no fields are requested and the
// server does not mark default fields.
var DefaultFields = []string{
	"id",
	"data_resource_uid",
	"data_resource",
	"license",
	"taxon_name",
	"taxon_concept_lsid",
	"rank",
	"vernacular_name",
	"kingdom",
	"phylum",
	"class",
	"order",
	"family",
	"genus",
	"species",
	"latitude",
	"longitude",
	"coordinate_uncertainty",
	"country",
	"state",
	"occurrence_date",
	"year",
	"month",
	"basis_of_record",
	"raw_taxon_name",
}

// UnwantedColumns are dropped from materialized tables. They carry
// internal index bookkeeping rather than occurrence data.
var UnwantedColumns = []string{
	"lft",
	"rgt",
	"left",
	"right",
	"rank_id",
	"row_key",
	"names_and_lsid",
	"common_name_and_lsid",
	"multimedia_url",
	"system_assertions",
	"user_assertions",
	"geospatial_kosher",
	"taxonomic_kosher",
	"assertions_unchecked",
	"data_hub_uid",
	"institution_uid",
	"collection_uid",
	"data_provider_uid",
}
