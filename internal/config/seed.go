package config

// DefaultFenceNames is the seed list of monitored checkpoints. Names are
// stored exactly as they appear in the incoming traffic messages.
func DefaultFenceNames() []string {
	return []string{
		"صره", "دير شرف", "عين سينيا", "روابي", "جبع", "شافي شمرون", "المربعه",
		"بورين", "عورتا", "بزاريا", "الحمرا", "العيزرية", "عناتا", "الكونتينر",
		"يتسهار", "زعترة", "الفندق", "النبي يونس", "سلفيت", "ترمسعيا", "قلنديا",
		"الزعيم", "النشاش", "بيت جالا", "النفق", "الخضر", "حواره", "الباذان",
		"النبي صالح", "بيت ليد", "اريحا", "كفر لاقف", "حارس", "كانا", "بديا",
		"جماعين", "عقربا", "الساوية", "عطارة", "سلواد",
	}
}

// DefaultAliases maps alternate spellings seen in messages to the canonical
// checkpoint name from DefaultFenceNames.
func DefaultAliases() map[string]string {
	return map[string]string{
		"صرة":      "صره",
		"العيزريه": "العيزرية",
		"عين سينا": "عين سينيا",
		"عين سنيا": "عين سينيا",
		"زعترا":    "زعترة",
		"زعتره":    "زعترة",
		"الساويه":  "الساوية",
		"المربعة":  "المربعه",
		"حوارة":    "حواره",
		"عطاره":    "عطارة",
	}
}
