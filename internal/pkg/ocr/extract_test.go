package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFields_BilingualID(t *testing.T) {
	text := "አበበ ከበደ | Abebe Kebede\n" +
		"Date of Birth 1998/04/12\n" +
		"Sex: Female\n" +
		"Nationality ኢትዮጵያዊ | Ethiopian\n" +
		"Phone 0912345678\n"

	got := ExtractFields(text)
	assert.Equal(t, "Abebe Kebede", got[FieldName])
	assert.Equal(t, "1998/04/12", got[FieldDateOfBirth])
	assert.Equal(t, "Female", got[FieldGender])
	assert.Equal(t, "Ethiopian", got[FieldNationality])
	assert.Equal(t, "0912345678", got[FieldPhone])
	assert.Equal(t, "አበበ ከበደ | Abebe Kebede", got[FieldAddress])
}

func TestExtractFields_NameFromCapitalisedFirstLine(t *testing.T) {
	got := ExtractFields("  Sara Tesfaye Alemu  \nmale\n")
	assert.Equal(t, "Sara Tesfaye Alemu", got[FieldName])
	assert.Equal(t, "Male", got[FieldGender])
}

func TestExtractFields_NameFallback(t *testing.T) {
	got := ExtractFields("ID 44821\nNAME\nHanna Girma | Hanna Girma Bekele\n")
	assert.Equal(t, "Hanna Girma Bekele", got[FieldName])
}

func TestExtractFields_EmptyEnglishPartIsIgnored(t *testing.T) {
	got := ExtractFields("አበበ ከበደ |\nAbebe Kebede\n")
	assert.Equal(t, "Abebe Kebede", got[FieldName])

	got = ExtractFields("Sara Tesfaye |  \n")
	assert.Equal(t, "Sara Tesfaye |", got[FieldName])
}

func TestExtractFields_DashedDateAndNoPhone(t *testing.T) {
	got := ExtractFields("residence: Bole, Addis Ababa\nissued 2020-1-5\ncall +251912345678")
	assert.Equal(t, "2020-1-5", got[FieldDateOfBirth])
	_, hasPhone := got[FieldPhone]
	assert.False(t, hasPhone)
	assert.Equal(t, "residence: Bole, Addis Ababa", got[FieldAddress])
}

func TestExtractFields_Empty(t *testing.T) {
	assert.Empty(t, ExtractFields("\n  \n"))
}
