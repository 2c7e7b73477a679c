package email

// PreviewData contains sample template data for local preview/testing.
//
//	PreviewData[TemplateBrandRegistered]["BrandName"] == "Acme"
var PreviewData = map[Template]map[string]string{
	TemplateBrandRegistered: {
		"BrandName": "Acme",
	},
}
