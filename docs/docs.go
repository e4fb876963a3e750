// Package docs содержит описание HTTP API для swagger UI.
// Описание ведется вручную вместе с аннотациями @Router в internal/adapters/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/camera/connect": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Camera"
                ],
                "summary": "Подключить камеру",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "503": {
                        "description": "Камера не найдена",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/camera/disconnect": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Camera"
                ],
                "summary": "Отключить камеру",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    }
                }
            }
        },
        "/camera/stream": {
            "get": {
                "produces": [
                    "multipart/x-mixed-replace"
                ],
                "tags": [
                    "Camera"
                ],
                "summary": "Видеопоток",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "503": {
                        "description": "Камера не открыта",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/camera/snapshot": {
            "get": {
                "produces": [
                    "image/jpeg"
                ],
                "tags": [
                    "Camera"
                ],
                "summary": "Снимок",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "503": {
                        "description": "Кадра нет",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/camera/fps": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Camera"
                ],
                "summary": "FPS камеры",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.CameraFPS"
                        }
                    }
                }
            }
        },
        "/camera/status": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Camera"
                ],
                "summary": "Статус камеры",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.CameraStatus"
                        }
                    }
                }
            }
        },
        "/camera/settings": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Camera"
                ],
                "summary": "Настройки камеры",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.CameraSettingsResponse"
                        }
                    }
                }
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Camera"
                ],
                "summary": "Изменить настройки камеры",
                "parameters": [
                    {
                        "description": "Экспозиция, усиление, автоэкспозиция",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.CameraSettings"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.CameraSettingsResponse"
                        }
                    },
                    "400": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/inference/run": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Inference"
                ],
                "summary": "Запуск инференса",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.InferenceResult"
                        }
                    },
                    "409": {
                        "description": "Инференс уже выполняется",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Нет кадра или модель недоступна",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/inference/mock-run": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Inference"
                ],
                "summary": "Запуск инференса",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.InferenceResult"
                        }
                    },
                    "409": {
                        "description": "Инференс уже выполняется",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Нет кадра или модель недоступна",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/inference/mock-latest": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Inference"
                ],
                "summary": "Последний результат",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.LatestInference"
                        }
                    }
                }
            }
        },
        "/plc/latest-inference": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Inference"
                ],
                "summary": "Последний результат",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.LatestInference"
                        }
                    }
                }
            }
        },
        "/inference/result/{name}": {
            "get": {
                "produces": [
                    "image/png"
                ],
                "tags": [
                    "Inference"
                ],
                "summary": "Файл результата",
                "parameters": [
                    {
                        "description": "Имя файла",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/inference/results": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Inference"
                ],
                "summary": "Список результатов",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ResultImageList"
                        }
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Inference"
                ],
                "summary": "Очистить результаты",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    }
                }
            }
        },
        "/plc/status": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "PLC"
                ],
                "summary": "Статус ПЛК",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.PlcStatus"
                        }
                    }
                }
            }
        },
        "/plc/connect": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "PLC"
                ],
                "summary": "Подключение к ПЛК",
                "parameters": [
                    {
                        "description": "Адрес ПЛК",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.PlcConnectRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.PlcConnectResponse"
                        }
                    },
                    "400": {
                        "description": "Неверный формат запроса",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/plc/write": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "PLC"
                ],
                "summary": "Запись в ПЛК",
                "parameters": [
                    {
                        "description": "Устройство и значение",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.PlcWriteRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Некорректное устройство или значение",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Недопустимый переход",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "ПЛК недоступен",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/plc/read": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "PLC"
                ],
                "summary": "Чтение из ПЛК",
                "parameters": [
                    {
                        "description": "Устройство",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.PlcReadRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.PlcReadResponse"
                        }
                    },
                    "400": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/plc/scan-start": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Scan"
                ],
                "summary": "Старт сканирования",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "409": {
                        "description": "Станок не в Idle",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "ПЛК недоступен",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/plc/scan-stop": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Scan"
                ],
                "summary": "Стоп сканирования",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "503": {
                        "description": "ПЛК недоступен",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/plc/grid-one": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Scan"
                ],
                "summary": "Съемка сетки",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "409": {
                        "description": "Съемка уже идет",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "ПЛК недоступен",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/plc/cycle-reset": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Scan"
                ],
                "summary": "Сброс цикла",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "503": {
                        "description": "ПЛК недоступен",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/plc/homing-start": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Scan"
                ],
                "summary": "Возврат в ноль",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "409": {
                        "description": "Станок не в Idle",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "ПЛК недоступен",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/plc/control-status": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Scan"
                ],
                "summary": "Состояние управления",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ControlStatus"
                        }
                    }
                }
            }
        },
        "/plc/heartbeat": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "PLC"
                ],
                "summary": "Heartbeat",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.HeartbeatResponse"
                        }
                    }
                }
            }
        },
        "/scans/list": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Scans"
                ],
                "summary": "Архив сканирований",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ScanListResponse"
                        }
                    }
                }
            }
        },
        "/scans/{id}": {
            "get": {
                "produces": [
                    "application/json",
                    "application/msgpack"
                ],
                "tags": [
                    "Scans"
                ],
                "summary": "Запись архива",
                "parameters": [
                    {
                        "description": "ID сканирования",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/entities.ScanRecord"
                        }
                    },
                    "404": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/scans/{id}/image/{name}": {
            "get": {
                "produces": [
                    "image/jpeg"
                ],
                "tags": [
                    "Scans"
                ],
                "summary": "Снимок сканирования",
                "parameters": [
                    {
                        "description": "ID сканирования",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Имя файла",
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/servo/enable": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Servo"
                ],
                "summary": "Питание сервоприводов",
                "parameters": [
                    {
                        "description": "enable",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.ServoEnableRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/servo/move": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Servo"
                ],
                "summary": "Перемещение",
                "parameters": [
                    {
                        "description": "Команда, например x_home",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.ServoMoveRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Неизвестная команда",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Идет сканирование",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/servo/speeds": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Servo"
                ],
                "summary": "Скорости осей",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.ServoSpeedsResponse"
                        }
                    }
                }
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Servo"
                ],
                "summary": "Установить скорости",
                "parameters": [
                    {
                        "description": "Скорости 0..max_speed",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.ServoSpeeds"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Скорость вне диапазона",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/events": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "System"
                ],
                "summary": "Журнал событий",
                "parameters": [
                    {
                        "description": "Сколько событий вернуть (по умолчанию все)",
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.EventListResponse"
                        }
                    },
                    "400": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/events/ws": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Поток событий",
                "responses": {
                    "101": {
                        "description": "Переход на WebSocket"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "System"
                ],
                "summary": "Health",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.HealthResponse"
                        }
                    }
                }
            }
        },
        "/api/troubleshoot": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "System"
                ],
                "summary": "Диагностика (RAG)",
                "parameters": [
                    {
                        "description": "Вопрос",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.TroubleshootRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.TroubleshootResponse"
                        }
                    },
                    "400": {
                        "description": "Ошибка",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Сервис не настроен или недоступен",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "System"
                ],
                "summary": "Health",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.HealthResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "entities.ScanDefect": {
            "type": "object",
            "properties": {
                "image": {
                    "type": "string"
                },
                "overlayUrl": {
                    "type": "string"
                },
                "defectCount": {
                    "type": "integer"
                },
                "defectDetails": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Defect"
                    }
                }
            }
        },
        "entities.ScanRecord": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "time": {
                    "type": "string"
                },
                "imageCount": {
                    "type": "integer"
                },
                "defectCount": {
                    "type": "integer"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "Pass",
                        "Fail"
                    ]
                },
                "images": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "defects": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/entities.ScanDefect"
                    }
                }
            }
        },
        "models.CameraFPS": {
            "type": "object",
            "properties": {
                "is_open": {
                    "type": "boolean"
                },
                "fps": {
                    "type": "number"
                }
            }
        },
        "models.CameraSettings": {
            "type": "object",
            "properties": {
                "exposure": {
                    "type": "number",
                    "example": 5000
                },
                "gain": {
                    "type": "number",
                    "example": 0
                },
                "auto_exposure": {
                    "type": "boolean"
                }
            }
        },
        "models.CameraSettingsResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "exposure": {
                    "type": "number"
                },
                "gain": {
                    "type": "number"
                },
                "auto_exposure": {
                    "type": "boolean"
                }
            }
        },
        "models.CameraStatus": {
            "type": "object",
            "properties": {
                "is_open": {
                    "type": "boolean"
                },
                "is_grabbing": {
                    "type": "boolean"
                },
                "driver": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "models.ControlStatus": {
            "type": "object",
            "properties": {
                "connected": {
                    "type": "boolean"
                },
                "m5": {
                    "type": "integer"
                },
                "m4": {
                    "type": "integer"
                },
                "m120": {
                    "type": "integer"
                },
                "state": {
                    "type": "string"
                },
                "scan_id": {
                    "type": "string"
                },
                "image_count": {
                    "type": "integer"
                },
                "stale": {
                    "type": "boolean"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "models.Defect": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string"
                },
                "class_id": {
                    "type": "integer"
                },
                "pixel_count": {
                    "type": "integer"
                },
                "area_ratio": {
                    "type": "number"
                },
                "severity": {
                    "type": "string"
                }
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean",
                    "example": false
                },
                "error": {
                    "type": "string",
                    "example": "plc write M4: connection refused"
                }
            }
        },
        "models.Event": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "time": {
                    "type": "string"
                },
                "event": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "info",
                        "success",
                        "warning",
                        "error"
                    ]
                }
            }
        },
        "models.EventListResponse": {
            "type": "object",
            "properties": {
                "events": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Event"
                    }
                }
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "agent_loaded": {
                    "type": "boolean"
                },
                "plc_connected": {
                    "type": "boolean"
                },
                "camera_open": {
                    "type": "boolean"
                },
                "inference_mode": {
                    "type": "string"
                },
                "scan_state": {
                    "type": "string",
                    "enum": [
                        "Idle",
                        "Scanning",
                        "GridTriggered",
                        "Homing"
                    ]
                },
                "host": {
                    "$ref": "#/definitions/models.HostStats"
                }
            }
        },
        "models.HeartbeatResponse": {
            "type": "object",
            "properties": {
                "connected": {
                    "type": "boolean"
                },
                "y1": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "models.HostStats": {
            "type": "object",
            "properties": {
                "cpu_percent": {
                    "type": "number"
                },
                "memory_percent": {
                    "type": "number"
                },
                "uptime_s": {
                    "type": "integer"
                }
            }
        },
        "models.InferenceResult": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "sequence": {
                    "type": "integer"
                },
                "timestamp": {
                    "type": "string"
                },
                "inference_time_ms": {
                    "type": "number"
                },
                "defects": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Defect"
                    }
                },
                "mask_url": {
                    "type": "string"
                },
                "overlay_url": {
                    "type": "string"
                },
                "source_image": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "models.LatestInference": {
            "type": "object",
            "properties": {
                "has_result": {
                    "type": "boolean"
                },
                "sequence": {
                    "type": "integer"
                },
                "timestamp": {
                    "type": "string"
                },
                "overlay_url": {
                    "type": "string"
                },
                "defects": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Defect"
                    }
                },
                "inference_time_ms": {
                    "type": "number"
                },
                "source_image": {
                    "type": "string"
                }
            }
        },
        "models.PlcConnectRequest": {
            "type": "object",
            "required": [
                "ip",
                "port"
            ],
            "properties": {
                "ip": {
                    "type": "string",
                    "example": "169.254.180.21"
                },
                "port": {
                    "type": "integer",
                    "example": 5000
                },
                "timeout": {
                    "type": "integer",
                    "example": 5000
                }
            }
        },
        "models.PlcConnectResponse": {
            "type": "object",
            "properties": {
                "connected": {
                    "type": "boolean"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "models.PlcReadRequest": {
            "type": "object",
            "properties": {
                "device": {
                    "type": "string",
                    "example": "M5"
                }
            },
            "required": [
                "device"
            ]
        },
        "models.PlcReadResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "device": {
                    "type": "string"
                },
                "value": {
                    "type": "integer"
                }
            }
        },
        "models.PlcStatus": {
            "type": "object",
            "properties": {
                "connected": {
                    "type": "boolean"
                },
                "ip": {
                    "type": "string"
                },
                "port": {
                    "type": "integer"
                },
                "timeout": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                },
                "last_checked": {
                    "type": "string"
                }
            }
        },
        "models.PlcWriteRequest": {
            "type": "object",
            "required": [
                "device",
                "value"
            ],
            "properties": {
                "device": {
                    "type": "string",
                    "example": "Y1"
                },
                "value": {
                    "type": "integer",
                    "example": 1
                }
            }
        },
        "models.ResultImage": {
            "type": "object",
            "properties": {
                "filename": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                },
                "created": {
                    "type": "string"
                }
            }
        },
        "models.ResultImageList": {
            "type": "object",
            "properties": {
                "results": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.ResultImage"
                    }
                }
            }
        },
        "models.ScanListResponse": {
            "type": "object",
            "properties": {
                "scans": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.ScanSummary"
                    }
                }
            }
        },
        "models.ScanSummary": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "time": {
                    "type": "string"
                },
                "imageCount": {
                    "type": "integer"
                },
                "defectCount": {
                    "type": "integer"
                },
                "status": {
                    "type": "string"
                },
                "thumbnail": {
                    "type": "string"
                }
            }
        },
        "models.ServoEnableRequest": {
            "type": "object",
            "properties": {
                "enable": {
                    "type": "boolean"
                }
            },
            "required": [
                "enable"
            ]
        },
        "models.ServoMoveRequest": {
            "type": "object",
            "properties": {
                "command": {
                    "type": "string",
                    "example": "x_home"
                }
            },
            "required": [
                "command"
            ]
        },
        "models.ServoSpeeds": {
            "type": "object",
            "properties": {
                "x": {
                    "type": "integer",
                    "example": 1000
                },
                "y": {
                    "type": "integer",
                    "example": 1000
                },
                "z": {
                    "type": "integer",
                    "example": 500
                }
            },
            "required": [
                "x",
                "y",
                "z"
            ]
        },
        "models.ServoSpeedsResponse": {
            "type": "object",
            "properties": {
                "connected": {
                    "type": "boolean"
                },
                "x": {
                    "type": "integer"
                },
                "y": {
                    "type": "integer"
                },
                "z": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "models.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean",
                    "example": true
                },
                "message": {
                    "type": "string",
                    "example": "Scan started"
                }
            }
        },
        "models.TroubleshootRequest": {
            "type": "object",
            "properties": {
                "query": {
                    "type": "string"
                }
            },
            "required": [
                "query"
            ]
        },
        "models.TroubleshootResponse": {
            "type": "object",
            "properties": {
                "response": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:5001",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inspection Service API",
	Description:      "Контроллер станка покрасочной инспекции: связь с ПЛК (MC protocol), камера, инференс дефектов и архив сканирований.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
