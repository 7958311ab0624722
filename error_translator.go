package uploader

// ErrorTranslator is an option that can be passed to NewUploader
//
// and is called with each row failure before it is recorded in the Summary - so that errors can be
// translated (or wrapped) into messages meaningful to whoever supplied the rows
type ErrorTranslator interface {
	// Translate translates the passed error
	Translate(error) error
}

func translateError(err error, translator ErrorTranslator) error {
	if err == nil {
		return nil
	}
	if translated := translator.Translate(err); translated != nil {
		return translated
	}
	return err
}

// ErrorTranslatorFunc is an adapter to allow the use of an ordinary function as an ErrorTranslator
type ErrorTranslatorFunc func(error) error

var _ ErrorTranslator = ErrorTranslatorFunc(nil)

func (f ErrorTranslatorFunc) Translate(err error) error {
	return f(err)
}

var defaultErrorTranslator ErrorTranslator = &defErrorTranslator{}

type defErrorTranslator struct{}

func (e *defErrorTranslator) Translate(err error) error {
	return err
}
