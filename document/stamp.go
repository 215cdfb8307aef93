package document

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const pageStampKey = "Page %d of %d"

var stamps = func() *catalog.Builder {
	b := catalog.NewBuilder()
	for tag, msg := range map[language.Tag]string{
		language.English: "Page %d of %d",
		language.German:  "Seite %d von %d",
		language.French:  "Page %d sur %d",
		language.Spanish: "Página %d de %d",
		language.Dutch:   "Pagina %d van %d",
	} {
		if err := b.SetString(tag, pageStampKey, msg); err != nil {
			panic(err)
		}
	}
	return b
}()

// PageStamp returns the localized "Page i of n" footer.
func PageStamp(tag language.Tag, i, n int) string {
	return message.NewPrinter(tag, message.Catalog(stamps)).Sprintf(pageStampKey, i, n)
}
