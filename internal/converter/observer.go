package converter

// Observers - три независимых необязательных колбэка.
// Любой может быть nil.
type Observers struct {
	OnResultUpdated       func(text string)
	OnLoadingStateChanged func(isLoading bool)
	OnErrorOccurred       func(message string)
}

func (o Observers) resultUpdated(text string) {
	if o.OnResultUpdated != nil {
		o.OnResultUpdated(text)
	}
}

func (o Observers) loadingStateChanged(isLoading bool) {
	if o.OnLoadingStateChanged != nil {
		o.OnLoadingStateChanged(isLoading)
	}
}

func (o Observers) errorOccurred(message string) {
	if o.OnErrorOccurred != nil {
		o.OnErrorOccurred(message)
	}
}

// Fanout объединяет несколько наборов наблюдателей в один.
// Порядок вызова совпадает с порядком аргументов.
func Fanout(observers ...Observers) Observers {
	return Observers{
		OnResultUpdated: func(text string) {
			for _, o := range observers {
				o.resultUpdated(text)
			}
		},
		OnLoadingStateChanged: func(isLoading bool) {
			for _, o := range observers {
				o.loadingStateChanged(isLoading)
			}
		},
		OnErrorOccurred: func(message string) {
			for _, o := range observers {
				o.errorOccurred(message)
			}
		},
	}
}
