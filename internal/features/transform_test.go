package features

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardguard-dev/cardguard/internal/rawcsv"
)

func readTestdata(t *testing.T) *rawcsv.Batch {
	t.Helper()
	b, err := rawcsv.ReadFile("../../testdata/raw_transactions.csv")
	require.NoError(t, err)
	return b
}

func rawBatch(t *testing.T, text string) *rawcsv.Batch {
	t.Helper()
	b, err := rawcsv.Read(strings.NewReader(text))
	require.NoError(t, err)
	return b
}

const miniHeader = "trans_date_trans_time,category,amt,gender,dob,is_fraud\n"

func TestTransform_Testdata(t *testing.T) {
	fb, err := Transform(readTestdata(t), true)
	require.NoError(t, err)
	require.Len(t, fb.Rows, 6)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fb))

	want := "amt,age,gender,trans_hour,trans_day_of_week,category_grocery_pos,category_shopping_net,category_misc_net,is_fraud\n" +
		"4.97,30,1,0,1,0,0,1,0\n" +
		"107.23,40,1,0,1,1,0,0,0\n" +
		"220.11,56,0,0,1,0,0,0,0\n" +
		"45,51,0,0,1,0,0,0,0\n" +
		"1077.69,33,1,23,6,0,1,0,1\n" +
		"281.06,31,0,12,0,1,0,0,1\n"
	assert.Equal(t, want, buf.String())
}

func TestTransform_Unlabeled(t *testing.T) {
	fb, err := Transform(readTestdata(t), false)
	require.NoError(t, err)
	assert.False(t, fb.Labeled)
	assert.Len(t, fb.Columns(), 8)
	assert.NotContains(t, fb.Columns(), "is_fraud")
	for _, v := range fb.Rows {
		assert.Nil(t, v.Label)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fb))
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "amt,age,gender,trans_hour,trans_day_of_week,category_grocery_pos,category_shopping_net,category_misc_net", first)
}

func TestTransform_UnlabeledWithoutLabelColumn(t *testing.T) {
	b := rawBatch(t, "trans_date_trans_time,category,amt,gender,dob\n2024-06-14 10:00:00,grocery_pos,10,Female,1990-06-15\n")
	fb, err := Transform(b, false)
	require.NoError(t, err)
	require.Len(t, fb.Rows, 1)
	assert.Equal(t, []float64{10, 33, 1, 10, 4, 1, 0, 0}, fb.Matrix()[0])
}

func TestTransform_Idempotent(t *testing.T) {
	b := readTestdata(t)

	var first, second bytes.Buffer
	fb1, err := Transform(b, true)
	require.NoError(t, err)
	require.NoError(t, WriteCSV(&first, fb1))

	fb2, err := Transform(b, true)
	require.NoError(t, err)
	require.NoError(t, WriteCSV(&second, fb2))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestTransform_ColumnOrderIndependentOfInput(t *testing.T) {
	a := rawBatch(t, miniHeader+"2024-06-16 08:00:00,misc_net,3.50,Male,1990-06-15,1\n")
	b := rawBatch(t, "is_fraud,dob,gender,amt,category,trans_date_trans_time\n1,1990-06-15,Male,3.50,misc_net,2024-06-16 08:00:00\n")

	var bufA, bufB bytes.Buffer
	fa, err := Transform(a, true)
	require.NoError(t, err)
	require.NoError(t, WriteCSV(&bufA, fa))
	fbb, err := Transform(b, true)
	require.NoError(t, err)
	require.NoError(t, WriteCSV(&bufB, fbb))

	assert.Equal(t, bufA.String(), bufB.String())
	assert.Equal(t, "3.5,34,0,8,6,0,0,1,1\n", strings.SplitN(bufA.String(), "\n", 2)[1])
}

func TestTransform_EmptyBatch(t *testing.T) {
	fb, err := Transform(rawBatch(t, miniHeader), true)
	require.NoError(t, err)
	assert.Empty(t, fb.Rows)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fb))
	assert.Equal(t, "amt,age,gender,trans_hour,trans_day_of_week,category_grocery_pos,category_shopping_net,category_misc_net,is_fraud\n", buf.String())
}

func TestTransform_CategoryColumnsAlwaysPresent(t *testing.T) {
	// No row carries any of the flagged categories.
	b := rawBatch(t, miniHeader+
		"2024-06-14 10:00:00,entertainment,1,Female,1990-06-15,0\n"+
		"2024-06-14 11:00:00,travel,2,Male,1990-06-15,0\n")
	fb, err := Transform(b, true)
	require.NoError(t, err)
	assert.Contains(t, fb.Columns(), "category_grocery_pos")
	assert.Contains(t, fb.Columns(), "category_shopping_net")
	assert.Contains(t, fb.Columns(), "category_misc_net")
	for _, v := range fb.Rows {
		assert.Equal(t, 0, v.GroceryPOS+v.ShoppingNet+v.MiscNet)
	}
}

func TestTransform_BadTimestamp(t *testing.T) {
	b := rawBatch(t, miniHeader+
		"2024-06-14 10:00:00,misc_net,1,Female,1990-06-15,0\n"+
		"14/06/2024 10:00,misc_net,1,Female,1990-06-15,0\n")
	_, err := Transform(b, true)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Row)
	assert.Equal(t, "trans_date_trans_time", pe.Column)
	assert.Contains(t, err.Error(), "line 3")
}

func TestTransform_BadDOB(t *testing.T) {
	b := rawBatch(t, miniHeader+"2024-06-14 10:00:00,misc_net,1,Female,unknown,0\n")
	_, err := Transform(b, true)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "dob", pe.Column)
}

func TestTransform_BadAmount(t *testing.T) {
	b := rawBatch(t, miniHeader+"2024-06-14 10:00:00,misc_net,abc,Female,1990-06-15,0\n")
	_, err := Transform(b, true)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "amt", pe.Column)
}

func TestTransform_BadLabel(t *testing.T) {
	for _, label := range []string{"", "2", "yes"} {
		b := rawBatch(t, miniHeader+"2024-06-14 10:00:00,misc_net,1,Female,1990-06-15,"+label+"\n")
		_, err := Transform(b, true)
		var pe *ParseError
		require.ErrorAs(t, err, &pe, "label %q", label)
		assert.Equal(t, "is_fraud", pe.Column)
	}
}

func TestTransform_NullCategory(t *testing.T) {
	b := rawBatch(t, miniHeader+"2024-06-14 10:00:00,,1,Female,1990-06-15,0\n")
	_, err := Transform(b, true)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "category", pe.Column)
}

func TestTransform_UnknownGender(t *testing.T) {
	b := rawBatch(t, miniHeader+
		"2024-06-14 10:00:00,misc_net,1,Female,1990-06-15,0\n"+
		"2024-06-14 10:00:00,misc_net,1,U,1990-06-15,0\n")
	_, err := Transform(b, true)
	var ug *UnknownGenderError
	require.ErrorAs(t, err, &ug)
	assert.Equal(t, 3, ug.Row)
	assert.Equal(t, "U", ug.Value)
}

func TestTransform_MissingColumn(t *testing.T) {
	b := rawBatch(t, "trans_date_trans_time,category,amt,gender\n2024-06-14 10:00:00,misc_net,1,Female\n")
	_, err := Transform(b, false)
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), `"dob"`)
}

func TestTransform_LabelRequiredWhenLabeled(t *testing.T) {
	b := rawBatch(t, "trans_date_trans_time,category,amt,gender,dob\n2024-06-14 10:00:00,misc_net,1,Female,1990-06-15\n")
	_, err := Transform(b, true)
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestTransform_Nil(t *testing.T) {
	_, err := Transform(nil, true)
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	fb, err := Transform(readTestdata(t), true)
	require.NoError(t, err)

	path := t.TempDir() + "/final/out.csv"
	require.NoError(t, WriteFile(path, fb))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "amt,age,"))
	assert.Equal(t, 7, strings.Count(string(data), "\n"))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
