package i18n

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts[LangEnglish] = map[string]string{
		KeyStart:            "Send a YouTube video URL to download it.\nCommands: /help, /cancel",
		KeyHelp:             "Send a link starting with http:// or https://.\nLong videos get a format list, reply with its number.\nShort videos ask for confirmation, reply '%s'.\n/cancel drops the current request.",
		KeyInvalidURL:       "Please send a valid YouTube video URL.",
		KeyNoInternet:       "Error: no internet connection.",
		KeyCookiesInvalid:   "The cookies file is invalid or missing. Access may be limited.",
		KeyDurationWarning:  "Warning: video '%s' is shorter than %s. Continue? (Answer '%s' or '%s')",
		KeyCancelled:        "Download cancelled.",
		KeyNothingToCancel:  "There is no active request.",
		KeyBusy:             "A request is already in progress, please wait for it to finish.",
		KeyInvalidChoice:    "Invalid choice. Pick a format number.",
		KeyEnterNumber:      "Enter the number of the format.",
		KeyFormatsHeader:    "Available formats:",
		KeyChooseFormat:     "Choose a format number:",
		KeyNoFormats:        "No formats are available for this video.",
		KeyDownloading:      "Downloading: %s",
		KeySaved:            "File saved to %s",
		KeyProgress:         "Download progress: %.1f%%",
		KeyFinished:         "Download finished!",
		KeyDownloadError:    "Download error: %s. Check the cookies or regional restrictions.",
		KeyUnexpectedError:  "Unexpected error: %s",
		KeyVideoWithAudio:   "Video %dp (with audio)",
		KeyVideoNoAudio:     "Video %dp (no audio)",
		KeyAudioOnly:        "Audio %.0fkbps",
		KeyFormatLine:       "%d. %s - %.2f MB",
		KeyAffirmative:      "yes",
		KeyNegative:         "no",
		KeyPromptURL:        "Enter a video URL (q to quit): ",
		KeyEmptyURL:         "The URL must not be empty.",
		KeyPromptFormat:     "Choose a format number (Enter for best): ",
		KeyProxySelected:    "Using proxy: %s",
		KeyNoProxy:          "No working proxy found, continuing without a proxy.",
		KeyVideoInfo:        "Video: %s (%s)",
		KeyCookiesProceed:   "Cookies file is not usable, continuing without cookies.",
		KeyOfflineAbort:     "No internet connection, aborting.",
		KeyGoodbye:          "Bye.",
		KeyCheckingNetwork:  "Checking network...",
		KeyFetchingMetadata: "Fetching video information...",
	}

	l.texts[LangRussian] = map[string]string{
		KeyStart:            "Отправьте URL видео с YouTube для загрузки.\nКоманды: /help, /cancel",
		KeyHelp:             "Отправьте ссылку, начинающуюся с http:// или https://.\nДля длинных видео придёт список форматов, ответьте номером.\nДля коротких видео нужно подтверждение, ответьте '%s'.\n/cancel отменяет текущий запрос.",
		KeyInvalidURL:       "Пожалуйста, отправьте валидный URL видео с YouTube.",
		KeyNoInternet:       "Ошибка: Нет интернет-соединения.",
		KeyCookiesInvalid:   "Файл cookies недействителен или отсутствует. Это может ограничить доступ.",
		KeyDurationWarning:  "Предупреждение: Видео '%s' короче %s. Продолжить? (Ответьте '%s' или '%s')",
		KeyCancelled:        "Загрузка отменена.",
		KeyNothingToCancel:  "Нет активного запроса.",
		KeyBusy:             "Запрос уже выполняется, дождитесь его завершения.",
		KeyInvalidChoice:    "Неверный выбор. Выберите номер формата.",
		KeyEnterNumber:      "Введите число, соответствующее номеру формата.",
		KeyFormatsHeader:    "Доступные форматы:",
		KeyChooseFormat:     "Выберите номер формата:",
		KeyNoFormats:        "Нет доступных форматов для этого видео.",
		KeyDownloading:      "Загружаем: %s",
		KeySaved:            "Файл сохранен в %s",
		KeyProgress:         "Прогресс загрузки: %.1f%%",
		KeyFinished:         "Загрузка завершена!",
		KeyDownloadError:    "Ошибка загрузки: %s. Проверьте cookies или региональные ограничения.",
		KeyUnexpectedError:  "Неожиданная ошибка: %s",
		KeyVideoWithAudio:   "Видео %dp (с аудио)",
		KeyVideoNoAudio:     "Видео %dp (без аудио)",
		KeyAudioOnly:        "Аудио %.0fkbps",
		KeyFormatLine:       "%d. %s - %.2f MB",
		KeyAffirmative:      "да",
		KeyNegative:         "нет",
		KeyPromptURL:        "Введите URL видео (q — выход): ",
		KeyEmptyURL:         "URL не может быть пустым.",
		KeyPromptFormat:     "Выберите номер формата (Enter — лучший): ",
		KeyProxySelected:    "Используется прокси: %s",
		KeyNoProxy:          "Рабочий прокси не найден, продолжаем без прокси.",
		KeyVideoInfo:        "Видео: %s (%s)",
		KeyCookiesProceed:   "Файл cookies непригоден, продолжаем без cookies.",
		KeyOfflineAbort:     "Нет интернет-соединения, работа прервана.",
		KeyGoodbye:          "До свидания.",
		KeyCheckingNetwork:  "Проверка сети...",
		KeyFetchingMetadata: "Получаем информацию о видео...",
	}

	l.texts[LangPortuguese] = map[string]string{
		KeyStart:            "Envie a URL de um vídeo do YouTube para baixar.\nComandos: /help, /cancel",
		KeyHelp:             "Envie um link começando com http:// ou https://.\nVídeos longos recebem uma lista de formatos, responda com o número.\nVídeos curtos pedem confirmação, responda '%s'.\n/cancel cancela o pedido atual.",
		KeyInvalidURL:       "Por favor, envie uma URL válida de vídeo do YouTube.",
		KeyNoInternet:       "Erro: sem conexão com a internet.",
		KeyCookiesInvalid:   "O arquivo de cookies é inválido ou ausente. O acesso pode ser limitado.",
		KeyDurationWarning:  "Aviso: o vídeo '%s' é mais curto que %s. Continuar? (Responda '%s' ou '%s')",
		KeyCancelled:        "Download cancelado.",
		KeyNothingToCancel:  "Não há pedido ativo.",
		KeyBusy:             "Um pedido já está em andamento, aguarde a conclusão.",
		KeyInvalidChoice:    "Escolha inválida. Escolha o número do formato.",
		KeyEnterNumber:      "Digite o número do formato.",
		KeyFormatsHeader:    "Formatos disponíveis:",
		KeyChooseFormat:     "Escolha o número do formato:",
		KeyNoFormats:        "Não há formatos disponíveis para este vídeo.",
		KeyDownloading:      "Baixando: %s",
		KeySaved:            "Arquivo salvo em %s",
		KeyProgress:         "Progresso do download: %.1f%%",
		KeyFinished:         "Download concluído!",
		KeyDownloadError:    "Erro de download: %s. Verifique os cookies ou restrições regionais.",
		KeyUnexpectedError:  "Erro inesperado: %s",
		KeyVideoWithAudio:   "Vídeo %dp (com áudio)",
		KeyVideoNoAudio:     "Vídeo %dp (sem áudio)",
		KeyAudioOnly:        "Áudio %.0fkbps",
		KeyFormatLine:       "%d. %s - %.2f MB",
		KeyAffirmative:      "sim",
		KeyNegative:         "não",
		KeyPromptURL:        "Digite a URL do vídeo (q para sair): ",
		KeyEmptyURL:         "A URL não pode estar vazia.",
		KeyPromptFormat:     "Escolha o número do formato (Enter para o melhor): ",
		KeyProxySelected:    "Usando proxy: %s",
		KeyNoProxy:          "Nenhum proxy funcional encontrado, continuando sem proxy.",
		KeyVideoInfo:        "Vídeo: %s (%s)",
		KeyCookiesProceed:   "Arquivo de cookies inutilizável, continuando sem cookies.",
		KeyOfflineAbort:     "Sem conexão com a internet, abortando.",
		KeyGoodbye:          "Tchau.",
		KeyCheckingNetwork:  "Verificando a rede...",
		KeyFetchingMetadata: "Obtendo informações do vídeo...",
	}
}
